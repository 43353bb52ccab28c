// Package utils provides image loading and decoding helpers shared by the
// CLI commands and the server.
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// LoadError represents errors that occur while loading or decoding images.
type LoadError struct {
	Operation string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("image load error in %s: %v", e.Operation, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &LoadError{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, &LoadError{Operation: "load", Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}
	f, err := os.Open(path) //nolint:gosec // G304: reading a user-provided image path is expected
	if err != nil {
		return nil, &LoadError{Operation: "load", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error closing image file: %v\n", cerr)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Operation: "decode", Err: err}
	}
	return img, nil
}

// DecodeImageBytes decodes an in-memory image payload (uploaded file or
// pushed frame) into pixels.
func DecodeImageBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &LoadError{Operation: "decode", Err: errors.New("empty payload")}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Operation: "decode", Err: err}
	}
	return img, nil
}
