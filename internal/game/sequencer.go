package game

import (
	"context"
	"errors"
	"log"

	"block-quest/internal/blueprint"
	"block-quest/internal/levels"
	"block-quest/internal/metrics"
	"block-quest/internal/progress"
	"block-quest/internal/voxel"
)

// Mode is the sequencer state.
type Mode int

const (
	ModeLevel Mode = iota
	ModeSandbox
)

func (m Mode) String() string {
	if m == ModeSandbox {
		return "sandbox"
	}
	return "level"
}

// Sequencer walks a player through the level catalog and unlocks sandbox
// mode after the last level. It is not safe for concurrent use; the game
// loop owns it.
type Sequencer struct {
	catalog *levels.Catalog
	store   progress.Store
	key     string
	logger  *log.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mode    Mode
	index   int
	bp      *blueprint.Blueprint
	task    *blueprint.Task
	lastErr error
}

// NewSequencer creates a sequencer that persists progress under key.
// logger and m may be nil.
func NewSequencer(cat *levels.Catalog, store progress.Store, key string, logger *log.Logger, m *metrics.Metrics) *Sequencer {
	if logger == nil {
		logger = log.Default()
	}
	return &Sequencer{
		catalog: cat,
		store:   store,
		key:     key,
		logger:  logger,
		metrics: m,
	}
}

// Resume reads saved progress and enters the saved level, or sandbox mode
// when every level is done. Storage failures fall back to the first level.
// Decodes started later are bound to ctx.
func (s *Sequencer) Resume(ctx context.Context) {
	s.Close()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.lastErr = nil

	p, err := progress.Load(ctx, s.store, s.key)
	if err != nil {
		s.logger.Printf("load %s: %v (starting at level 1)", s.key, err)
		if errors.Is(err, progress.ErrStorageUnavailable) {
			s.metrics.StorageError("load")
		}
		p = progress.Progress{}
	}

	s.index = p.LevelIndex
	if s.index >= s.catalog.Count() {
		s.enterSandbox()
		return
	}
	s.mode = ModeLevel
	s.load(s.index)
}

func (s *Sequencer) load(i int) {
	s.bp = nil
	src, ok := s.catalog.Source(i)
	if !ok {
		s.task = nil
		return
	}
	s.task = blueprint.Start(s.ctx, src)
}

func (s *Sequencer) enterSandbox() {
	s.mode = ModeSandbox
	s.bp = nil
	s.task = nil
}

// Poll adopts a finished blueprint decode. It reports whether the
// sequencer state changed.
func (s *Sequencer) Poll() bool {
	if s.task == nil || !s.task.Ready() {
		return false
	}
	bp, err := s.task.Result()
	s.task = nil
	if err != nil {
		s.lastErr = err
		s.metrics.DecodeError()
		s.logger.Printf("level %d: %v", s.index+1, err)
		return true
	}
	s.bp = bp
	s.lastErr = nil
	return true
}

// Await blocks until the in-flight decode resolves and adopts it.
func (s *Sequencer) Await(ctx context.Context) error {
	if s.task == nil {
		return nil
	}
	select {
	case <-s.task.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.Poll()
	return nil
}

// OnPlaced runs the completion check after a block was placed. It reports
// whether the current level was completed.
func (s *Sequencer) OnPlaced(g *voxel.Grid) bool {
	if s.mode != ModeLevel || s.bp == nil || s.task != nil {
		return false
	}
	if !g.IsSatisfied(s.bp) {
		return false
	}

	s.index++
	s.metrics.LevelCompleted()
	s.logger.Printf("%s completed level %d", s.key, s.index)
	if err := progress.Save(s.ctx, s.store, s.key, progress.Progress{LevelIndex: s.index}); err != nil {
		s.metrics.StorageError("save")
		s.logger.Printf("save %s: %v", s.key, err)
	}

	if s.index >= s.catalog.Count() {
		s.enterSandbox()
		s.metrics.SandboxUnlocked()
		return true
	}
	g.Clear()
	s.load(s.index)
	return true
}

// Close cancels any in-flight decode.
func (s *Sequencer) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sequencer) Mode() Mode { return s.mode }

// Index is the current level index. In sandbox mode it is at least the
// level count.
func (s *Sequencer) Index() int { return s.index }

// Blueprint is the current target. It stays nil until a decode succeeds
// and in sandbox mode.
func (s *Sequencer) Blueprint() *blueprint.Blueprint { return s.bp }

// Loading reports whether a blueprint decode is in flight.
func (s *Sequencer) Loading() bool { return s.task != nil }

// LastError is the decode error of the current level, if any.
func (s *Sequencer) LastError() error { return s.lastErr }

// LevelCount is the size of the catalog.
func (s *Sequencer) LevelCount() int { return s.catalog.Count() }
