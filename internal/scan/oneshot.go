package scan

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/common"
	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/enhance"
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
	"github.com/MeKo-Tech/labelscan/internal/roi"
)

// OneShot decodes single uploaded photos. It compresses the whole escalation
// ladder into one exhaustive synchronous pass: there is no stability gate, no
// phase clock and no dedupe window, only the validation predicate.
type OneShot struct {
	cfg       Config
	primary   engine.BarcodeDecoder
	secondary engine.BarcodeDecoder
	ocr       engine.OCR
	dedupe    *Deduplicator
}

// NewOneShot wires a single-shot decoder. A nil OCR engine skips the final
// OCR fallback.
func NewOneShot(cfg Config, primary, secondary engine.BarcodeDecoder, ocr engine.OCR) (*OneShot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, errors.New("scan: primary decoder is required")
	}
	return &OneShot{cfg: cfg, primary: primary, secondary: secondary, ocr: ocr, dedupe: NewDeduplicator(cfg)}, nil
}

// Decode exhausts every variant and engine against one image. It returns nil
// with no error when everything missed; the caller owns surfacing that
// outcome to the user.
func (d *OneShot) Decode(ctx context.Context, img image.Image) (*Reading, error) {
	timer := common.NewNamedTimer("one-shot decode")
	defer func() { slog.Debug("one-shot decode finished", "took", timer.Stop()) }()

	frame := pixbuf.FromImage(img)

	var hint image.Rectangle
	if r := d.tryBarcode(ctx, img, &hint); r != nil {
		return r, nil
	}

	work := frame.Clone()
	enhance.Deglare(work)
	gray := enhance.ToGrayscale(work)
	crop, _ := roi.AutoCropLabel(gray, d.cfg.ROI)
	straight, _ := roi.Deskew(crop, d.cfg.ROI)

	for _, v := range enhance.BuildVariants(straight, d.cfg.Enhance) {
		if v.Name == enhance.VariantOCR {
			continue
		}
		if r := d.tryBarcode(ctx, v.Gray.ToImage(), nil); r != nil {
			return r, nil
		}
		if v.Name == enhance.VariantBinarized {
			inv := v.Gray.Clone()
			enhance.InvertGray(inv)
			if r := d.tryBarcode(ctx, inv.ToImage(), nil); r != nil {
				return r, nil
			}
		}
	}

	if d.ocr == nil {
		return nil, nil
	}
	full := enhance.ToGrayscale(frame)
	region := ocrRegion(hint, full.Width, full.Height)
	bin := full.Crop(region)
	enhance.Binarize(bin, nil)
	text, err := d.recognize(ctx, bin)
	if err != nil {
		if !errors.Is(err, engine.ErrNotFound) && !errors.Is(err, engine.ErrNoOCRBackend) {
			slog.Debug("one-shot OCR error treated as miss", "error", err)
		}
		return nil, nil
	}
	value := NormalizeValue(text)
	if !d.dedupe.IsAcceptable(value) {
		return nil, nil
	}
	return &Reading{Timestamp: time.Now(), Value: value, SourceTag: "ocr"}, nil
}

func (d *OneShot) tryBarcode(ctx context.Context, img image.Image, hint *image.Rectangle) *Reading {
	for _, dec := range []engine.BarcodeDecoder{d.primary, d.secondary} {
		if dec == nil {
			continue
		}
		res, err := dec.Decode(ctx, img)
		if err != nil {
			continue
		}
		if hint != nil && !res.BBox.Empty() {
			*hint = res.BBox
		}
		if d.dedupe.IsAcceptable(res.Text) {
			return &Reading{Timestamp: time.Now(), Value: res.Text, SourceTag: dec.Name()}
		}
	}
	return nil
}

func (d *OneShot) recognize(ctx context.Context, bin *pixbuf.Gray) (string, error) {
	text, err := d.ocr.Recognize(ctx, bin.ToImage(), d.cfg.OCRWhitelist)
	if err == nil && NormalizeValue(text) != "" {
		return text, nil
	}
	inv := bin.Clone()
	enhance.InvertGray(inv)
	text, err = d.ocr.Recognize(ctx, inv.ToImage(), d.cfg.OCRWhitelist)
	if err != nil {
		return "", err
	}
	if NormalizeValue(text) == "" {
		return "", engine.ErrNotFound
	}
	return text, nil
}
