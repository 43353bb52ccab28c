package utils

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, "frame.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("photo.jpg"))
	assert.True(t, IsSupportedImage("PHOTO.JPEG"))
	assert.True(t, IsSupportedImage("scan.png"))
	assert.True(t, IsSupportedImage("old.bmp"))
	assert.False(t, IsSupportedImage("doc.pdf"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestLoadImage(t *testing.T) {
	path := writeTestPNG(t, t.TempDir())
	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestLoadImage_Errors(t *testing.T) {
	_, err := LoadImage("")
	assert.Error(t, err)

	_, err = LoadImage("file.tiff")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "load", le.Operation)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadImage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
	_, err := LoadImage(path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "decode", le.Operation)
}

func TestDecodeImageBytes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	decoded, err := DecodeImageBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())

	_, err = DecodeImageBytes(nil)
	assert.Error(t, err)
	_, err = DecodeImageBytes([]byte("garbage"))
	assert.Error(t, err)
}
