package enhance

import (
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// Variant names produced by BuildVariants, in build order.
const (
	VariantBarcode        = "barcode-optimized"
	VariantOCR            = "ocr-optimized"
	VariantStrongContrast = "strong-contrast"
	VariantEdgeEmphasis   = "edge-emphasis"
	VariantBinarized      = "binarized"
)

// Variant is one differently-enhanced rendering of the same crop, tuned for a
// specific decode engine. Buffers are never mutated after creation.
type Variant struct {
	Name string
	Gray *pixbuf.Gray
}

// Params holds the tuning constants of the variant pipelines. The values are
// empirically chosen; they are exposed as configuration rather than literals
// so presets can be adjusted without forking the pipeline.
type Params struct {
	BarcodeUnsharpRadius  int
	BarcodeUnsharpAmount  float32
	BarcodeSharpenV       float32
	BarcodeStretchLow     float64
	BarcodeStretchHigh    float64
	OCRUnsharpRadius      int
	OCRUnsharpAmount      float32
	OCRBlurRadius         int
	OCRStretchLow         float64
	OCRStretchHigh        float64
	ContrastStretchLow    float64
	ContrastStretchHigh   float64
	ContrastUnsharpRadius int
	ContrastUnsharpAmount float32
	EdgeStretchLow        float64
	EdgeStretchHigh       float64
}

// DefaultParams returns the tuned pipeline defaults.
func DefaultParams() Params {
	return Params{
		BarcodeUnsharpRadius:  2,
		BarcodeUnsharpAmount:  1.8,
		BarcodeSharpenV:       1.2,
		BarcodeStretchLow:     0.02,
		BarcodeStretchHigh:    0.98,
		OCRUnsharpRadius:      1,
		OCRUnsharpAmount:      1.2,
		OCRBlurRadius:         1,
		OCRStretchLow:         0.03,
		OCRStretchHigh:        0.97,
		ContrastStretchLow:    0.01,
		ContrastStretchHigh:   0.99,
		ContrastUnsharpRadius: 1,
		ContrastUnsharpAmount: 1.6,
		EdgeStretchLow:        0.02,
		EdgeStretchHigh:       0.98,
	}
}

// BuildVariants derives the named enhancement variants from a deskewed,
// deglared grayscale crop. Composition order is fixed; decode success rates
// are tuned against exactly these pipelines, so the output is deterministic
// given identical input pixels.
func BuildVariants(base *pixbuf.Gray, p Params) []Variant {
	denoised := Median3x3(base)

	barcode := HistogramStretch(
		HistogramEqualize(
			DirectionalSharpenVertical(
				UnsharpMask(denoised, p.BarcodeUnsharpRadius, p.BarcodeUnsharpAmount),
				p.BarcodeSharpenV)),
		p.BarcodeStretchLow, p.BarcodeStretchHigh)

	ocr := HistogramStretch(
		HistogramEqualize(
			BoxBlur(
				UnsharpMask(denoised, p.OCRUnsharpRadius, p.OCRUnsharpAmount),
				p.OCRBlurRadius)),
		p.OCRStretchLow, p.OCRStretchHigh)

	strong := UnsharpMask(
		HistogramStretch(barcode, p.ContrastStretchLow, p.ContrastStretchHigh),
		p.ContrastUnsharpRadius, p.ContrastUnsharpAmount)

	edges := HistogramStretch(SobelMagnitudeX(barcode), p.EdgeStretchLow, p.EdgeStretchHigh)

	binarized := barcode.Clone()
	Binarize(binarized, nil)

	return []Variant{
		{Name: VariantBarcode, Gray: barcode},
		{Name: VariantOCR, Gray: ocr},
		{Name: VariantStrongContrast, Gray: strong},
		{Name: VariantEdgeEmphasis, Gray: edges},
		{Name: VariantBinarized, Gray: binarized},
	}
}
