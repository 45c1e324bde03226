package game

import (
	"block-quest/internal/blueprint"
	"block-quest/internal/metrics"
	"block-quest/internal/scene"
	"block-quest/internal/voxel"
)

// Session is one player's game: their grid, palette selection, camera and
// level progress. Sessions are independent of each other.
type Session struct {
	ID     string
	Player string

	Grid      *voxel.Grid
	Selection *voxel.Selection
	Camera    scene.Camera
	Seq       *Sequencer

	caster  scene.Caster
	metrics *metrics.Metrics

	version uint64 // bumped on every visible change
	quit    bool
}

// NewSession wires a session around an existing sequencer.
func NewSession(id, player string, seq *Sequencer, palette voxel.Palette, caster scene.Caster, m *metrics.Metrics) *Session {
	return &Session{
		ID:        id,
		Player:    player,
		Grid:      voxel.NewGrid(),
		Selection: voxel.NewSelection(palette),
		Camera:    scene.DefaultCamera(),
		Seq:       seq,
		caster:    caster,
		metrics:   m,
		version:   1,
	}
}

// Target returns the cast from the screen centre.
func (s *Session) Target() (scene.Hit, bool) {
	return s.caster.Cast(s.Grid, s.Camera.CenterRay())
}

// Primary places a block of the current color on the face under the
// crosshair and runs the completion check. It is ignored while a
// blueprint is loading.
func (s *Session) Primary() bool {
	if s.Seq.Loading() {
		return false
	}
	h, ok := s.Target()
	if !ok {
		return false
	}
	if !s.Grid.Place(h.Adjacent(), s.Selection.Color()) {
		return false
	}
	s.metrics.BlockPlaced()
	s.Seq.OnPlaced(s.Grid)
	s.touch()
	return true
}

// Secondary removes the block under the crosshair. The ground cannot be
// removed.
func (s *Session) Secondary() bool {
	if s.Seq.Loading() {
		return false
	}
	h, ok := s.Target()
	if !ok || !h.IsBlock {
		return false
	}
	if !s.Grid.Remove(h.Cell) {
		return false
	}
	s.metrics.BlockRemoved()
	s.touch()
	return true
}

// Apply runs one input event against the session.
func (s *Session) Apply(ev InputEvent) {
	switch ev.Action {
	case ActionForward:
		s.Camera.Move(MoveStep, 0)
	case ActionBack:
		s.Camera.Move(-MoveStep, 0)
	case ActionStrafeLeft:
		s.Camera.Move(0, -MoveStep)
	case ActionStrafeRight:
		s.Camera.Move(0, MoveStep)
	case ActionTurnLeft:
		s.Camera.Turn(TurnStep, 0)
	case ActionTurnRight:
		s.Camera.Turn(-TurnStep, 0)
	case ActionLookUp:
		s.Camera.Turn(0, PitchStep)
	case ActionLookDown:
		s.Camera.Turn(0, -PitchStep)
	case ActionFloat:
		s.Camera.Float(FloatStep)
	case ActionPlace:
		s.Primary()
		return
	case ActionRemove:
		s.Secondary()
		return
	case ActionSelectDigit:
		if !s.Selection.SelectDigit(ev.Index) {
			return
		}
	case ActionSelectIndex:
		if !s.Selection.SelectIndex(ev.Index) {
			return
		}
	case ActionPose:
		s.Camera.SetPose(ev.Pose.Pos, ev.Pose.Yaw, ev.Pose.Pitch)
	case ActionQuit:
		s.quit = true
	default:
		return
	}
	s.touch()
}

// Poll adopts finished background work.
func (s *Session) Poll() {
	if s.Seq.Poll() {
		s.touch()
	}
}

// Quit reports whether the player asked to leave.
func (s *Session) Quit() bool { return s.quit }

// Version changes whenever the session's snapshot would.
func (s *Session) Version() uint64 { return s.version }

func (s *Session) touch() { s.version++ }

// Close releases background work.
func (s *Session) Close() {
	s.Seq.Close()
}

// Snapshot is a read-only copy of a session for rendering and transport.
type Snapshot struct {
	Tick      uint64
	Version   uint64
	SessionID string
	Player    string

	Mode       Mode
	Level      int
	LevelCount int
	Loading    bool
	Error      string

	// Blueprint is nil in sandbox mode and until the level's decode finishes.
	Blueprint *blueprint.Blueprint
	Blocks    []voxel.Block

	Palette  voxel.Palette
	Selected int
	Camera   scene.Camera

	HasTarget bool
	Target    scene.Hit

	Quit bool
}

// Snapshot copies the session state.
func (s *Session) Snapshot(tick uint64) Snapshot {
	snap := Snapshot{
		Tick:       tick,
		Version:    s.version,
		SessionID:  s.ID,
		Player:     s.Player,
		Mode:       s.Seq.Mode(),
		Level:      s.Seq.Index(),
		LevelCount: s.Seq.LevelCount(),
		Loading:    s.Seq.Loading(),
		Blueprint:  s.Seq.Blueprint(),
		Blocks:     s.Grid.Blocks(),
		Palette:    s.Selection.Palette(),
		Selected:   s.Selection.Index(),
		Camera:     s.Camera,
		Quit:       s.quit,
	}
	if err := s.Seq.LastError(); err != nil {
		snap.Error = err.Error()
	}
	snap.Target, snap.HasTarget = s.Target()
	return snap
}
