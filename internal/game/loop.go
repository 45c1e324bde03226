package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"block-quest/internal/levels"
	"block-quest/internal/metrics"
	"block-quest/internal/progress"
	"block-quest/internal/scene"
	"block-quest/internal/voxel"
)

const InputChanSize = 256

// RenderChan is the per-session channel that receives snapshots.
type RenderChan chan Snapshot

// Options configures a GameLoop. Zero fields take defaults.
type Options struct {
	Catalog *levels.Catalog
	Store   progress.Store
	Palette voxel.Palette
	Caster  scene.Caster
	Logger  *log.Logger
	Metrics *metrics.Metrics
}

type sessionEntry struct {
	s        *Session
	ch       RenderChan
	lastSent uint64
	lastTick uint64
}

// GameLoop is the central game loop. Sessions are mutated only by the tick
// goroutine once added.
type GameLoop struct {
	opts      Options
	inputCh   chan InputEvent
	tickCount uint64

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewGameLoop creates and returns a new game loop.
func NewGameLoop(opts Options) *GameLoop {
	if opts.Catalog == nil {
		opts.Catalog = levels.Builtin()
	}
	if opts.Store == nil {
		opts.Store = progress.NewMemoryStore()
	}
	if opts.Palette == nil {
		opts.Palette = voxel.DefaultPalette
	}
	if opts.Caster.MaxDist == 0 {
		opts.Caster = scene.DefaultCaster()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[game] ", log.Flags())
	}
	return &GameLoop{
		opts:     opts,
		inputCh:  make(chan InputEvent, InputChanSize),
		sessions: make(map[string]*sessionEntry),
		stopCh:   make(chan struct{}),
	}
}

// InputChan returns the shared input channel for sessions to send events.
func (gl *GameLoop) InputChan() chan<- InputEvent {
	return gl.inputCh
}

// Store is the progress store sessions persist to.
func (gl *GameLoop) Store() progress.Store { return gl.opts.Store }

// Catalog is the level list.
func (gl *GameLoop) Catalog() *levels.Catalog { return gl.opts.Catalog }

// AddSession starts a game for player and resumes their saved progress.
// The session lives until RemoveSession; its blueprint decodes are also
// cancelled when ctx is.
func (gl *GameLoop) AddSession(ctx context.Context, player string) (string, RenderChan) {
	id := uuid.NewString()
	seq := NewSequencer(gl.opts.Catalog, gl.opts.Store, progress.KeyFor(player), gl.opts.Logger, gl.opts.Metrics)
	seq.Resume(ctx)
	s := NewSession(id, player, seq, gl.opts.Palette, gl.opts.Caster, gl.opts.Metrics)

	ch := make(RenderChan, 2)
	gl.mu.Lock()
	gl.sessions[id] = &sessionEntry{s: s, ch: ch}
	gl.mu.Unlock()

	gl.opts.Metrics.SessionOpened()
	gl.opts.Logger.Printf("session %s opened for %q (%s %d)", id, player, seq.Mode(), seq.Index()+1)
	return id, ch
}

// RemoveSession cancels the session's background work and closes its
// render channel.
func (gl *GameLoop) RemoveSession(id string) {
	gl.mu.Lock()
	e, ok := gl.sessions[id]
	if ok {
		delete(gl.sessions, id)
		close(e.ch)
	}
	gl.mu.Unlock()
	if !ok {
		return
	}
	e.s.Close()
	gl.opts.Metrics.SessionClosed()
	gl.opts.Logger.Printf("session %s closed", id)
}

// SessionCount returns the number of live sessions.
func (gl *GameLoop) SessionCount() int {
	gl.mu.RLock()
	defer gl.mu.RUnlock()
	return len(gl.sessions)
}

// Run starts the game loop. Blocks until Stop is called.
func (gl *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-gl.stopCh:
			return
		case <-ticker.C:
			gl.tick()
		}
	}
}

// Stop shuts down the game loop.
func (gl *GameLoop) Stop() {
	gl.stopOnce.Do(func() { close(gl.stopCh) })
}

func (gl *GameLoop) tick() {
	// Drain all pending input events
	for {
		select {
		case ev := <-gl.inputCh:
			gl.processInput(ev)
		default:
			goto drained
		}
	}
drained:

	gl.tickCount++

	gl.mu.RLock()
	defer gl.mu.RUnlock()
	for _, e := range gl.sessions {
		e.s.Poll()
		if e.s.Version() == e.lastSent && gl.tickCount-e.lastTick < uint64(HeartbeatInterval) {
			continue
		}
		// Non-blocking send; slow clients drop frames.
		select {
		case e.ch <- e.s.Snapshot(gl.tickCount):
			e.lastSent = e.s.Version()
			e.lastTick = gl.tickCount
		default:
		}
	}
}

func (gl *GameLoop) processInput(ev InputEvent) {
	gl.mu.RLock()
	e, ok := gl.sessions[ev.SessionID]
	gl.mu.RUnlock()
	if !ok {
		return
	}
	e.s.Apply(ev)
}
