package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPalette(t *testing.T) {
	assert.Equal(t, 16, DefaultPalette.Len())
	assert.Equal(t, 4, DefaultPalette.Index(0xff00ff))
	assert.Equal(t, -1, DefaultPalette.Index(0x123456))

	c, ok := DefaultPalette.Color(8)
	assert.True(t, ok)
	assert.Equal(t, "#ff8800", c.Hex())

	_, ok = DefaultPalette.Color(16)
	assert.False(t, ok)
}

func TestColorRGB(t *testing.T) {
	r, g, b := Color(0x0088ff).RGB()
	assert.Equal(t, []uint8{0x00, 0x88, 0xff}, []uint8{r, g, b})
	assert.Equal(t, "#000000", Color(0).Hex())
}

func TestSelection(t *testing.T) {
	s := NewSelection(DefaultPalette)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, Color(0xff0000), s.Color())

	tests := []struct {
		name      string
		digit     int
		ok        bool
		wantIndex int
	}{
		{"digit 1 is first swatch", 1, true, 0},
		{"digit 9 is ninth swatch", 9, true, 8},
		{"digit 0 ignored", 0, false, 8},
		{"digit 10 ignored", 10, false, 8},
		{"negative ignored", -3, false, 8},
		{"digit 3", 3, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, s.SelectDigit(tt.digit))
			assert.Equal(t, tt.wantIndex, s.Index())
		})
	}

	assert.True(t, s.SelectIndex(15))
	assert.Equal(t, Color(0x000000), s.Color())
	assert.False(t, s.SelectIndex(16))
	assert.Equal(t, 15, s.Index())
}
