package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

type outcome struct {
	img *image.NRGBA
	err error
}

func load(t *testing.T, m *Manager, label string) outcome {
	t.Helper()
	ch := make(chan outcome, 1)
	m.Load(label, func(img *image.NRGBA, err error) {
		ch <- outcome{img, err}
	})
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatalf("load of %s timed out", label)
		return outcome{}
	}
}

func TestResolvePrefersJPEG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover.png"), 2, 2, color.NRGBA{A: 255})
	writeJPEG(t, filepath.Join(dir, "cover.jpg"), 2, 2)

	path, err := Resolve(dir, "cover")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cover.jpg"), path)

	_, err = Resolve(dir, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeFormats(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 3, color.NRGBA{R: 200, G: 10, B: 20, A: 255})
	writeJPEG(t, filepath.Join(dir, "b.jpg"), 5, 2)

	img, err := Decode(filepath.Join(dir, "a.png"), 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 20, A: 255}, img.NRGBAAt(1, 1))

	img, err = Decode(filepath.Join(dir, "b.jpg"), 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 2), img.Bounds())
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.jpg"), []byte("not an image"), 0o644))
	_, err = Decode(filepath.Join(dir, "c.jpg"), 0)
	assert.Error(t, err)

	_, err = Decode(filepath.Join(dir, "nope.jpg"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		max      int
		wantW    int
		wantH    int
		sameSize bool
	}{
		{"landscape", 400, 200, 100, 100, 50, false},
		{"portrait", 90, 300, 30, 9, 30, false},
		{"small enough", 20, 10, 64, 20, 10, true},
		{"disabled", 500, 500, 0, 500, 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Downscale(src, tt.max)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
			if tt.sameSize {
				assert.Same(t, src, got)
			}
		})
	}
}

func TestManagerLoads(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "DSC00680.png"), 64, 32, color.NRGBA{G: 255, A: 255})

	m := NewManager(dir, 2, 16)
	defer m.Close()

	o := load(t, m, "DSC00680")
	require.NoError(t, o.err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), o.img.Bounds())

	again := load(t, m, "DSC00680")
	assert.Same(t, o.img, again.img, "cached")

	missing := load(t, m, "book-back")
	assert.ErrorIs(t, missing.err, ErrNotFound)
	assert.Nil(t, missing.img)
}

func TestManagerSharesInFlightLoads(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page.png"), 8, 8, color.NRGBA{A: 255})

	m := NewManager(dir, 4, 0)
	defer m.Close()

	const n = 10
	ch := make(chan outcome, n)
	for i := 0; i < n; i++ {
		m.Load("page", func(img *image.NRGBA, err error) { ch <- outcome{img, err} })
	}
	first := <-ch
	require.NoError(t, first.err)
	for i := 1; i < n; i++ {
		o := <-ch
		require.NoError(t, o.err)
		assert.Same(t, first.img, o.img)
	}
}

func TestManagerClosed(t *testing.T) {
	m := NewManager(t.TempDir(), 1, 0)
	m.Close()
	m.Close()

	o := load(t, m, "anything")
	assert.ErrorIs(t, o.err, ErrClosed)
}
