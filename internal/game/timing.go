package game

import "math"

const TickRate = 20 // ticks per second

// SecsToTicks converts a duration in seconds to game ticks.
func SecsToTicks(s float64) int {
	t := int(s * TickRate)
	if t < 1 {
		t = 1
	}
	return t
}

// Step sizes for one key press.
const (
	MoveStep  = 0.25             // world units per move
	TurnStep  = 5 * math.Pi / 180 // radians per turn
	PitchStep = 4 * math.Pi / 180
	FloatStep = 0.1 // the F key lifts the camera a tenth of a block
)

// HeartbeatInterval is how often an unchanged snapshot is re-published so
// late subscribers and resized terminals catch up.
var HeartbeatInterval = SecsToTicks(1.0)
