package game

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"block-quest/internal/blueprint"
	"block-quest/internal/levels"
	"block-quest/internal/progress"
	"block-quest/internal/voxel"
)

// textSource decodes a '#'/'.' blueprint immediately.
type textSource string

func (s textSource) Label() string                         { return "text" }
func (s textSource) Decode() (*blueprint.Blueprint, error) { return blueprint.Parse(string(s)) }

// gatedSource blocks until gate is closed.
type gatedSource struct {
	gate chan struct{}
	text string
}

func (s gatedSource) Label() string { return "gated" }
func (s gatedSource) Decode() (*blueprint.Blueprint, error) {
	<-s.gate
	return blueprint.Parse(s.text)
}

func newGate(t *testing.T) chan struct{} {
	gate := make(chan struct{})
	t.Cleanup(func() {
		select {
		case <-gate:
		default:
			close(gate)
		}
	})
	return gate
}

type failingStore struct{}

var errDisk = errors.New("disk on fire")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDisk }
func (failingStore) Put(context.Context, string, []byte) error         { return errDisk }
func (failingStore) Close() error                                      { return nil }

const (
	diagonal = "#.\n.#"
	single   = "#"
)

var quiet = log.New(io.Discard, "", 0)

func resumed(t *testing.T, cat *levels.Catalog, store progress.Store) *Sequencer {
	t.Helper()
	s := NewSequencer(cat, store, progress.DefaultKey, quiet, nil)
	s.Resume(context.Background())
	t.Cleanup(s.Close)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Await(ctx))
	return s
}

func storedIndex(t *testing.T, store progress.Store) int {
	t.Helper()
	p, err := progress.Load(context.Background(), store, progress.DefaultKey)
	require.NoError(t, err)
	return p.LevelIndex
}

func TestFreshStartIsFirstLevel(t *testing.T) {
	s := resumed(t, levels.New(textSource(diagonal), textSource(single)), progress.NewMemoryStore())
	assert.Equal(t, ModeLevel, s.Mode())
	assert.Equal(t, 0, s.Index())
	assert.False(t, s.Loading())
	require.NotNil(t, s.Blueprint())
	assert.Equal(t, 2, s.Blueprint().Count())
}

func TestResumeSavedLevel(t *testing.T) {
	store := progress.NewMemoryStore()
	require.NoError(t, progress.Save(context.Background(), store, progress.DefaultKey, progress.Progress{LevelIndex: 1}))

	s := resumed(t, levels.New(textSource(diagonal), textSource(single)), store)
	assert.Equal(t, ModeLevel, s.Mode())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 1, s.Blueprint().Count())
}

func TestResumePastLastLevelIsSandbox(t *testing.T) {
	for _, idx := range []int{2, 7} {
		store := progress.NewMemoryStore()
		require.NoError(t, progress.Save(context.Background(), store, progress.DefaultKey, progress.Progress{LevelIndex: idx}))

		s := resumed(t, levels.New(textSource(diagonal), textSource(single)), store)
		assert.Equal(t, ModeSandbox, s.Mode())
		assert.Nil(t, s.Blueprint())
		assert.False(t, s.Loading())
	}
}

func TestStorageFailureFallsBackToFirstLevel(t *testing.T) {
	s := resumed(t, levels.New(textSource(single), textSource(single)), failingStore{})
	assert.Equal(t, ModeLevel, s.Mode())
	assert.Equal(t, 0, s.Index())

	// Saving fails too, but play continues.
	g := voxel.NewGrid()
	g.Place(voxel.C(0, 1, 0), 0)
	assert.True(t, s.OnPlaced(g))
	assert.Equal(t, 1, s.Index())
}

func TestCompletionAdvancesAndClears(t *testing.T) {
	store := progress.NewMemoryStore()
	s := resumed(t, levels.New(textSource(diagonal), textSource(single)), store)
	g := voxel.NewGrid()

	g.Place(voxel.C(0, 1, 0), 0)
	assert.False(t, s.OnPlaced(g), "one of two needed cells")

	g.Place(voxel.C(1, 1, 1), 0)
	require.True(t, s.OnPlaced(g))
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 0, g.Len(), "grid cleared for the next level")
	assert.Equal(t, 1, storedIndex(t, store))
	assert.True(t, s.Loading())
	assert.Nil(t, s.Blueprint())
}

func TestLastLevelUnlocksSandbox(t *testing.T) {
	store := progress.NewMemoryStore()
	s := resumed(t, levels.New(textSource(diagonal)), store)
	g := voxel.NewGrid()
	g.Place(voxel.C(0, 1, 0), 0)
	g.Place(voxel.C(1, 1, 1), 0)

	require.True(t, s.OnPlaced(g))
	assert.Equal(t, ModeSandbox, s.Mode())
	assert.Nil(t, s.Blueprint())
	assert.Equal(t, 2, g.Len(), "the last build stays standing")
	assert.Equal(t, 1, storedIndex(t, store))

	// No further checks in sandbox.
	g.Clear()
	assert.False(t, s.OnPlaced(g))
	assert.Equal(t, 1, storedIndex(t, store))
}

func TestExtraBlocksBlockCompletion(t *testing.T) {
	s := resumed(t, levels.New(textSource(diagonal)), progress.NewMemoryStore())
	g := voxel.NewGrid()
	g.Place(voxel.C(0, 1, 0), 0)
	g.Place(voxel.C(1, 1, 1), 0)
	g.Place(voxel.C(1, 1, 0), 0)
	assert.False(t, s.OnPlaced(g))

	// Blocks off the blueprint or off layer 1 do not matter.
	g.Remove(voxel.C(1, 1, 0))
	g.Place(voxel.C(5, 1, 5), 0)
	g.Place(voxel.C(1, 2, 0), 0)
	assert.True(t, s.OnPlaced(g))
}

func TestDecodeErrorStaysOnLevel(t *testing.T) {
	bad := blueprint.DataURL("data:image/png;base64,bm90IGEgcG5n")
	s := resumed(t, levels.New(bad), progress.NewMemoryStore())

	var de *blueprint.DecodeError
	require.ErrorAs(t, s.LastError(), &de)
	assert.Equal(t, ModeLevel, s.Mode())
	assert.Nil(t, s.Blueprint())
	assert.False(t, s.Loading())
	assert.False(t, s.OnPlaced(voxel.NewGrid()))
}

func TestNoCompletionWhileLoading(t *testing.T) {
	gate := newGate(t)
	s := NewSequencer(levels.New(gatedSource{gate, single}), progress.NewMemoryStore(), progress.DefaultKey, quiet, nil)
	s.Resume(context.Background())
	defer s.Close()

	assert.True(t, s.Loading())
	assert.False(t, s.Poll())
	g := voxel.NewGrid()
	g.Place(voxel.C(0, 1, 0), 0)
	assert.False(t, s.OnPlaced(g))

	close(gate)
	require.NoError(t, s.Await(context.Background()))
	assert.True(t, s.OnPlaced(g))
}

func TestCloseCancelsDecode(t *testing.T) {
	gate := newGate(t)
	s := NewSequencer(levels.New(gatedSource{gate, single}), progress.NewMemoryStore(), progress.DefaultKey, quiet, nil)
	s.Resume(context.Background())
	s.Close()

	require.NoError(t, s.Await(context.Background()))
	assert.ErrorIs(t, s.LastError(), context.Canceled)
	assert.Nil(t, s.Blueprint())
}
