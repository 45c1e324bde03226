package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	OSC   = ESC + "]"
	Reset = CSI + "0m"

	// HalfBlock carries two vertical pixels per cell: fg is the upper
	// pixel and bg the lower one.
	HalfBlock = '▀'
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

func ClearScreen() string      { return CSI + "2J" }
func HideCursor() string       { return CSI + "?25l" }
func ShowCursor() string       { return CSI + "?25h" }
func EnableAltScreen() string  { return CSI + "?1049h" }
func DisableAltScreen() string { return CSI + "?1049l" }

// SetTitle sets the terminal window title.
func SetTitle(title string) string {
	return OSC + "0;" + title + "\a"
}

// EnterGame prepares a terminal for full-screen play.
func EnterGame(title string) string {
	return EnableAltScreen() + HideCursor() + ClearScreen() + SetTitle(title)
}

// LeaveGame restores the terminal EnterGame changed.
func LeaveGame() string {
	return Reset + ShowCursor() + DisableAltScreen()
}

func writeRGB(sb *strings.Builder, r, g, b uint8) {
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(g)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(b)))
}

// WriteCellSGR writes one cell with a full reset-prefixed SGR so no
// attribute carries over from the previous cell.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	sb.WriteString(CSI + "0;")
	if c.Bold {
		sb.WriteString("1;")
	}
	sb.WriteString("38;2;")
	writeRGB(sb, c.FgR, c.FgG, c.FgB)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.BgR, c.BgG, c.BgB)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}
