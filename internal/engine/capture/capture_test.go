package capture

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipRGBA(t *testing.T) {
	// Two rows, bottom row red, top row blue, as GL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 2, 2)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b, "top row comes first")

	r, _, _, _ = img.At(1, 1).RGBA()
	assert.NotZero(t, r)

	_, err = FlipRGBA(pixels[:4], 2, 2)
	assert.Error(t, err)
	_, err = FlipRGBA(nil, 0, 0)
	assert.Error(t, err)
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "citymap")
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8e6, time.UTC) }

	path, err := s.SavePixels(make([]byte, 3*2*4), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "citymap_2026-03-04_05-06-07.008.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}
