// Package pdfscan pulls embedded raster images out of PDF documents so the
// single-shot decode path can scan barcodes in scanned delivery notes and
// packing lists.
package pdfscan

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImages maps a 1-based page number to the raster images embedded on it.
type PageImages map[int][]image.Image

// ExtractImages extracts embedded images from a PDF file, optionally limited
// to a page selection like "1-5" or "1,3,7". An empty selection means all
// pages.
func ExtractImages(filename, pages string) (PageImages, error) {
	selected, err := parsePageSelection(pages)
	if err != nil {
		return nil, fmt.Errorf("invalid page selection %q: %w", pages, err)
	}

	tempDir, err := os.MkdirTemp("", "labelscan-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	if len(selected) > 0 {
		pageStrings = make([]string, len(selected))
		for i, p := range selected {
			pageStrings[i] = strconv.Itoa(p)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("extract images from PDF: %w", err)
	}
	return collectImages(tempDir)
}

// collectImages walks the extraction directory and groups decoded images by
// page. pdfcpu names files page_<num>_image_<idx>.<ext>; anything else is
// skipped.
func collectImages(dir string) (PageImages, error) {
	out := make(PageImages)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		page, perr := pageFromFilename(info.Name())
		if perr != nil {
			return nil
		}
		img, ierr := loadImage(path)
		if ierr != nil || img == nil {
			return nil
		}
		out[page] = append(out[page], img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

func pageFromFilename(name string) (int, error) {
	if !strings.HasPrefix(name, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, errors.New("unexpected filename format")
	}
	return strconv.Atoi(parts[1])
}

// parsePageSelection parses "1-5", "3" or "1,3,5" style selections.
func parsePageSelection(sel string) ([]int, error) {
	if sel == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		expanded, err := parseSelectionToken(part)
		if err != nil {
			return nil, err
		}
		pages = append(pages, expanded...)
	}
	return pages, nil
}

func parseSelectionToken(part string) ([]int, error) {
	if strings.Contains(part, "-") {
		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid range: %s", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start page: %s", bounds[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end page: %s", bounds[1])
		}
		if start > end {
			return nil, fmt.Errorf("start page %d after end page %d", start, end)
		}
		out := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
		return out, nil
	}
	p, err := strconv.Atoi(part)
	if err != nil {
		return nil, fmt.Errorf("invalid page number: %s", part)
	}
	return []int{p}, nil
}
