package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"block-quest/internal/blueprint"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("16x12")
	require.NoError(t, err)
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)

	for _, s := range []string{"16", "0x4", "4x0", "65x4", "ax4", "4xb"} {
		_, _, err := parseSize(s)
		assert.Error(t, err, s)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(16, 16, 42, 0.5, 0.15)
	b := generate(16, 16, 42, 0.5, 0.15)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, 16, a.Bounds().Dx())
	assert.Equal(t, 16, a.Bounds().Dy())
}

func TestGenerateThresholdExtremes(t *testing.T) {
	none, err := blueprint.FromImage("none", generate(8, 8, 1, 1, 0.15))
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count())

	all, err := blueprint.FromImage("all", generate(8, 8, 1, 0, 0.15))
	require.NoError(t, err)
	assert.LessOrEqual(t, all.Count(), 64)
	assert.Greater(t, all.Count(), 0)
}

func TestEncodedImageDecodes(t *testing.T) {
	img := generate(10, 6, 7, 0.5, 0.2)
	want, err := blueprint.FromImage("img", img)
	require.NoError(t, err)

	for _, out := range []string{"", "level.png", "level.BMP"} {
		var buf bytes.Buffer
		require.NoError(t, encode(&buf, img, out), out)
		got, err := blueprint.Decode(&buf)
		require.NoError(t, err, out)
		assert.Equal(t, want.Rows(), got.Rows(), out)
	}
}
