// Package engine defines the external decode engine contracts consumed by the
// scan orchestrator: barcode decoders and OCR. Engines are black boxes; a
// miss is reported as ErrNotFound and is never fatal.
package engine

import (
	"context"
	"errors"
	"image"
)

// ErrNotFound is returned by an engine that found nothing in the image.
var ErrNotFound = errors.New("engine: nothing found")

// ErrNoOCRBackend is returned when no OCR backend is linked into the build.
var ErrNoOCRBackend = errors.New("engine: no OCR backend linked; build with -tags=ocr_tesseract")

// Result is a successful decode from a barcode engine.
type Result struct {
	Text   string
	Format string
	Points []image.Point   // corner or key points if the engine reports them
	BBox   image.Rectangle // bounding box derived from Points; zero if unknown
}

// BarcodeDecoder decodes a barcode from an image.
type BarcodeDecoder interface {
	// Name tags committed readings with the engine that produced them.
	Name() string

	// Decode returns the first symbol found, ErrNotFound on a miss, or any
	// other error on engine failure. Callers treat both the same way.
	Decode(ctx context.Context, img image.Image) (Result, error)
}

// OCR recognizes text inside a small region of interest. Implementations may
// hold long-lived native resources; Close releases them.
type OCR interface {
	// Recognize returns raw recognized text. The whitelist, when non-empty,
	// constrains the character set the engine may emit.
	Recognize(ctx context.Context, img image.Image, whitelist string) (string, error)
	Close() error
}

func rectFromPoints(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
