package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func TestScreenshotName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 250*int(time.Millisecond), time.UTC)
	assert.Equal(t, "bookroom-20240309-140507.250.webp", ScreenshotName(ts))
}

func TestSaveScreenshot(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 80), B: 0x15, A: 0xff})
		}
	}

	dir := filepath.Join(t.TempDir(), "shots")
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	path, err := SaveScreenshot(img, dir, ts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ScreenshotName(ts)), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := webp.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, g, b, _ := decoded.At(3, 2).RGBA()
	assert.Equal(t, uint32(180), r>>8)
	assert.Equal(t, uint32(160), g>>8)
	assert.Equal(t, uint32(0x15), b>>8)
}

func TestSaveScreenshotBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := SaveScreenshot(image.NewNRGBA(image.Rect(0, 0, 1, 1)), file, time.Now())
	assert.Error(t, err)
}
