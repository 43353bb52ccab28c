// Package testutil generates synthetic imagery for tests: real encodable
// barcodes via the gozxing writers, stripe patterns for skew estimation, and
// degradation helpers (rotation, contrast loss) to exercise the escalation
// ladder.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
)

// GenerateCode128 renders a decodable Code 128 barcode of the given size.
func GenerateCode128(text string, width, height int) (image.Image, error) {
	writer := oned.NewCode128Writer()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_CODE_128, width, height, nil)
	if err != nil {
		return nil, fmt.Errorf("encode code128: %w", err)
	}
	return bitMatrixToImage(matrix), nil
}

// GenerateQR renders a decodable QR code of the given size.
func GenerateQR(text string, size int) (image.Image, error) {
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return bitMatrixToImage(matrix), nil
}

func bitMatrixToImage(m *gozxing.BitMatrix) *image.RGBA {
	w, h := m.GetWidth(), m.GetHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Get(x, y) {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// Rotate rotates an image by the given angle in degrees, filling exposed
// corners with white. The canvas grows as needed.
func Rotate(img image.Image, angleDeg float64) image.Image {
	return imaging.Rotate(img, angleDeg, color.White)
}

// OnFrame pastes an image centered on a larger white frame, simulating a
// label photographed with background around it.
func OnFrame(img image.Image, frameWidth, frameHeight int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	b := img.Bounds()
	offset := image.Pt((frameWidth-b.Dx())/2, (frameHeight-b.Dy())/2)
	draw.Draw(out, b.Add(offset).Sub(b.Min), img, b.Min, draw.Over)
	return out
}

// VerticalStripes returns a grayscale buffer of alternating black and white
// vertical bars with the given period.
func VerticalStripes(width, height, period int) *pixbuf.Gray {
	if period < 2 {
		period = 2
	}
	out := pixbuf.NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/(period/2))%2 == 0 {
				out.Pix[y*width+x] = 255
			}
		}
	}
	return out
}

// ReduceContrast pulls every sample toward mid-gray by the given factor in
// [0,1]; factor 1 flattens the image completely.
func ReduceContrast(g *pixbuf.Gray, factor float32) *pixbuf.Gray {
	out := pixbuf.NewGray(g.Width, g.Height)
	for i, v := range g.Pix {
		out.Pix[i] = v + (128-v)*factor
	}
	return out
}

// UniformGray returns a buffer filled with one value.
func UniformGray(width, height int, value float32) *pixbuf.Gray {
	out := pixbuf.NewGray(width, height)
	for i := range out.Pix {
		out.Pix[i] = value
	}
	return out
}

// Bimodal returns a buffer whose left half is lo and right half is hi, a
// minimal two-class intensity distribution.
func Bimodal(width, height int, lo, hi float32) *pixbuf.Gray {
	out := pixbuf.NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				out.Pix[y*width+x] = lo
			} else {
				out.Pix[y*width+x] = hi
			}
		}
	}
	return out
}
