package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// ScreenshotName returns the file name of a screenshot taken at t.
func ScreenshotName(t time.Time) string {
	return fmt.Sprintf("bookroom-%s.webp", t.Format("20060102-150405.000"))
}

// SaveScreenshot encodes img as lossless WebP into dir and returns the path.
func SaveScreenshot(img image.Image, dir string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: screenshot dir: %w", err)
	}
	path := filepath.Join(dir, ScreenshotName(t))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render: screenshot: %w", err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("render: screenshot: webp encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("render: screenshot: %w", err)
	}
	return path, nil
}
