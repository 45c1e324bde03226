package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"block-quest/internal/blueprint"
)

func TestBuiltinLevelsDecode(t *testing.T) {
	cat := Builtin()
	require.Equal(t, 5, cat.Count())

	bps, err := cat.Validate()
	require.NoError(t, err)

	for i, bp := range bps {
		assert.Equal(t, 16, bp.Width(), "level %d width", i)
		assert.Equal(t, 16, bp.Height(), "level %d height", i)
		assert.Equal(t, 128, bp.Count(), "level %d needs half the cells", i)
	}

	// Levels alternate between the two checkerboard phases.
	assert.True(t, bps[0].Needed(0, 0))
	assert.False(t, bps[0].Needed(1, 0))
	assert.False(t, bps[1].Needed(0, 0))
	assert.True(t, bps[1].Needed(1, 0))
	assert.Equal(t, bps[0].String(), bps[2].String())
}

func TestSourceOutOfRange(t *testing.T) {
	cat := Builtin()
	_, ok := cat.Source(-1)
	assert.False(t, ok)
	_, ok = cat.Source(cat.Count())
	assert.False(t, ok)
}

func TestValidateReportsBadLevel(t *testing.T) {
	cat := New(builtin[0], blueprint.DataURL("data:image/png;base64,AAAA"))
	_, err := cat.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level 2")

	var de *blueprint.DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Level 1", Name(0))
	assert.Equal(t, "Level 5", Name(4))
}
