// Package texture decodes page images in the background.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned when no file exists for a label.
var ErrNotFound = errors.New("texture: not found")

// Extensions are tried in order when resolving a label to a file.
var Extensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tga"}

// Resolve returns the first existing file named label plus one of
// Extensions inside dir.
func Resolve(dir, label string) (string, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, label+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("texture: stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, label, dir)
}

// Decode reads an image file of any registered format and returns it as
// NRGBA, downscaled so neither side exceeds maxSize. maxSize <= 0 keeps the
// original size.
func Decode(path string, maxSize int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return Downscale(toNRGBA(img), maxSize), nil
}

// toNRGBA converts any image to NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.RGBA:
		stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}

// Downscale shrinks img to fit in a maxSize square, keeping its aspect ratio.
func Downscale(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}

	w, h := maxSize, maxSize
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSize/b.Dx())
	} else {
		w = max(1, b.Dx()*maxSize/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
