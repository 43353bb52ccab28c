//go:build !ocr_tesseract

package engine

import (
	"context"
	"image"
)

type noOCR struct{}

// NewOCR returns the default OCR backend. The default build carries none to
// avoid an implicit CGO dependency; enable Tesseract with the build tag
// `ocr_tesseract`.
func NewOCR() (OCR, error) { return noOCR{}, nil }

func (noOCR) Recognize(context.Context, image.Image, string) (string, error) {
	return "", ErrNoOCRBackend
}

func (noOCR) Close() error { return nil }
