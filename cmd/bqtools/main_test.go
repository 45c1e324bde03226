package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, needed func(x, y int) bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if needed(x, y) {
				c.R = 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResolve(t *testing.T) {
	bp, name, err := resolve("1")
	require.NoError(t, err)
	assert.Equal(t, "Level 1", name)
	assert.Equal(t, 16, bp.Width())

	_, _, err = resolve("99")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "tiny.png")
	writePNG(t, path, 3, 2, func(x, y int) bool { return x == y })
	bp, name, err = resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny.png", name)
	assert.Equal(t, 2, bp.Count())
}

func TestValidateBuiltin(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, runValidate(&out, ""))
	assert.Contains(t, out.String(), "All 5 levels valid")
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4, func(x, y int) bool { return x == 0 })
	writePNG(t, filepath.Join(dir, "empty.png"), 2, 2, func(x, y int) bool { return false })
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	var out bytes.Buffer
	assert.Equal(t, 0, runValidate(&out, dir))
	assert.Contains(t, out.String(), "a.png: OK (4x4, 4 needed)")
	assert.Contains(t, out.String(), "empty.png: WARNING")
	assert.Contains(t, out.String(), "All 2 images valid")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))
	out.Reset()
	assert.Equal(t, 1, runValidate(&out, dir))
	assert.Contains(t, out.String(), "broken.png: ERROR")
}

func TestStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.png")
	writePNG(t, path, 5, 5, func(x, y int) bool { return x >= 1 && x <= 2 && y >= 2 && y <= 3 })

	var out bytes.Buffer
	require.Equal(t, 0, runStats(&out, path))
	assert.Contains(t, out.String(), "box.png (5x5 = 25 cells)")
	assert.Contains(t, out.String(), "needed    4")
	assert.Contains(t, out.String(), "x 1..2, z 2..3")
}

func TestSaveKey(t *testing.T) {
	assert.Equal(t, "bq-progress", saveKey("-"))
	assert.Equal(t, "bq-progress/alice", saveKey("alice"))
}
