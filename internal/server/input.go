package server

import (
	"unicode/utf8"

	"block-quest/internal/game"
)

// parseInput converts raw terminal bytes into input events (without a
// session ID). Handles WASD, arrow key escape sequences, place/remove keys,
// palette digits, F, Q and Ctrl-C.
func parseInput(data []byte) []game.InputEvent {
	var events []game.InputEvent
	add := func(a game.Action) {
		events = append(events, game.InputEvent{Action: a})
	}
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				add(game.ActionLookUp)
			case 'B':
				add(game.ActionLookDown)
			case 'C':
				add(game.ActionTurnRight)
			case 'D':
				add(game.ActionTurnLeft)
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch {
		case r >= '1' && r <= '9':
			events = append(events, game.InputEvent{Action: game.ActionSelectDigit, Index: int(r - '0')})
		case r == 'w' || r == 'W':
			add(game.ActionForward)
		case r == 's' || r == 'S':
			add(game.ActionBack)
		case r == 'a' || r == 'A':
			add(game.ActionStrafeLeft)
		case r == 'd' || r == 'D':
			add(game.ActionStrafeRight)
		case r == 'f' || r == 'F':
			add(game.ActionFloat)
		case r == ' ' || r == '\r' || r == '\n':
			add(game.ActionPlace)
		case r == 'x' || r == 'X' || r == 0x7f || r == 0x08:
			add(game.ActionRemove)
		case r == 'q' || r == 'Q' || r == 3: // 3 = Ctrl-C
			add(game.ActionQuit)
		}
		i += size
	}
	return events
}
