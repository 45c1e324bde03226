package game

import "github.com/go-gl/mathgl/mgl64"

// Action represents a player input action.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight
	ActionLookUp
	ActionLookDown
	ActionFloat
	ActionPlace  // primary
	ActionRemove // secondary
	ActionSelectDigit
	ActionSelectIndex
	ActionPose
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionForward:     "forward",
	ActionBack:        "back",
	ActionStrafeLeft:  "left",
	ActionStrafeRight: "right",
	ActionTurnLeft:    "turn-left",
	ActionTurnRight:   "turn-right",
	ActionLookUp:      "look-up",
	ActionLookDown:    "look-down",
	ActionFloat:       "float",
	ActionPlace:       "place",
	ActionRemove:      "remove",
	ActionSelectDigit: "digit",
	ActionSelectIndex: "select",
	ActionPose:        "pose",
	ActionQuit:        "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAction maps a wire name back to its Action.
func ParseAction(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return ActionNone, false
}

// Pose is a camera pose reported by a client that runs its own controls.
type Pose struct {
	Pos   mgl64.Vec3
	Yaw   float64
	Pitch float64
}

// InputEvent carries a player action into the game loop.
type InputEvent struct {
	SessionID string
	Action    Action

	// Index is the digit for ActionSelectDigit and the palette index for
	// ActionSelectIndex.
	Index int
	Pose  Pose
}
