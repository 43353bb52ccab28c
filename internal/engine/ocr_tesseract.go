//go:build ocr_tesseract

package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tesseractOCR wraps a long-lived gosseract client. The client is not safe
// for concurrent use, so calls are serialized; the orchestrator's one-OCR-
// in-flight backpressure keeps contention negligible.
type tesseractOCR struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewOCR returns a Tesseract-backed OCR engine.
func NewOCR() (OCR, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract init: %w", err)
	}
	return &tesseractOCR{client: client}, nil
}

func (t *tesseractOCR) Recognize(ctx context.Context, img image.Image, whitelist string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode OCR region: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetWhitelist(whitelist); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognize: %w", err)
	}
	if text == "" {
		return "", ErrNotFound
	}
	return text, nil
}

func (t *tesseractOCR) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
