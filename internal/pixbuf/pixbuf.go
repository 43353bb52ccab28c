package pixbuf

import (
	"fmt"
	"image"
	"image/color"
)

// ProcessingError represents errors that can occur while manipulating pixel buffers.
type ProcessingError struct {
	Operation string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("pixel buffer error in %s: %v", e.Operation, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Gray is an owned grayscale pixel buffer with one float32 sample per pixel
// in the range [0,255]. Samples are stored row-major.
type Gray struct {
	Width  int
	Height int
	Pix    []float32
}

// NewGray allocates a zeroed grayscale buffer of the given dimensions.
func NewGray(width, height int) *Gray {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Gray{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the sample at (x, y). The caller must keep coordinates in bounds.
func (g *Gray) At(x, y int) float32 { return g.Pix[y*g.Width+x] }

// Set stores a sample at (x, y). The caller must keep coordinates in bounds.
func (g *Gray) Set(x, y int, v float32) { g.Pix[y*g.Width+x] = v }

// Clone returns a deep copy of the buffer.
func (g *Gray) Clone() *Gray {
	out := NewGray(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// Bounds returns the buffer extent as an image.Rectangle anchored at the origin.
func (g *Gray) Bounds() image.Rectangle { return image.Rect(0, 0, g.Width, g.Height) }

// Crop returns a new buffer holding the pixels inside r, clamped to the
// buffer bounds. An empty intersection yields a zero-sized buffer.
func (g *Gray) Crop(r image.Rectangle) *Gray {
	r = r.Intersect(g.Bounds())
	out := NewGray(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		src := (r.Min.Y+y)*g.Width + r.Min.X
		copy(out.Pix[y*out.Width:(y+1)*out.Width], g.Pix[src:src+out.Width])
	}
	return out
}

// ToImage quantizes the buffer into an 8-bit image.Gray for engine handoff.
func (g *Gray) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: clampByte(g.Pix[y*g.Width+x])})
		}
	}
	return img
}

// RGBA is an owned RGBA pixel buffer with four bytes per pixel, row-major.
type RGBA struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGBA allocates a zeroed RGBA buffer of the given dimensions.
func NewRGBA(width, height int) *RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &RGBA{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

// FromImage copies an image.Image into an owned RGBA buffer.
func FromImage(img image.Image) *RGBA {
	b := img.Bounds()
	out := NewRGBA(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return out
}

// Clone returns a deep copy of the buffer.
func (p *RGBA) Clone() *RGBA {
	out := NewRGBA(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// Bounds returns the buffer extent as an image.Rectangle anchored at the origin.
func (p *RGBA) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

// ToImage copies the buffer into an image.RGBA.
func (p *RGBA) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}

// ClampRect restricts r to the rectangle [0,width) x [0,height).
func ClampRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
