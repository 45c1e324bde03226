package render

import (
	"fmt"

	"block-quest/internal/blueprint"
	"block-quest/internal/voxel"
)

// KeyHelp is the controls line of the HUD.
const KeyHelp = "WASD Move  ←→↑↓ Look  Space Place  X Remove  1-9 Color  F Float  Q Quit"

func (e *Engine) drawHUD(v View) {
	hudY := e.height - HUDRows
	if hudY < 0 {
		return
	}

	bgR, bgG, bgB := uint8(15), uint8(18), uint8(30)

	// Row 0: separator, a thin gradient line
	for x := 0; x < e.width; x++ {
		t := uint8(60 - x*40/max(e.width, 1))
		e.next[hudY][x] = Cell{
			Ch: '━', FgR: 40 + t, FgG: 70 + t, FgB: 90 + t,
			BgR: bgR, BgG: bgG, BgB: bgB,
		}
	}
	for row := 1; row < HUDRows; row++ {
		for x := 0; x < e.width; x++ {
			e.next[hudY+row][x] = Cell{Ch: ' ', BgR: bgR, BgG: bgG, BgB: bgB}
		}
	}

	// Row 1: level, player, notice and build progress
	row1 := hudY + 1
	sR, sG, sB := uint8(100), uint8(220), uint8(220)
	if v.Sandbox {
		sR, sG, sB = 240, 200, 80
	}
	col := e.writeText(row1, 1, e.width, v.Status, sR, sG, sB, bgR, bgG, bgB, true)
	if v.Player != "" {
		col = e.writeText(row1, col, e.width, "  │  ", 60, 65, 85, bgR, bgG, bgB, false)
		col = e.writeText(row1, col, e.width, v.Player, 180, 180, 195, bgR, bgG, bgB, false)
	}
	if v.Notice != "" {
		nR, nG, nB := uint8(230), uint8(210), uint8(120)
		if v.Alert {
			nR, nG, nB = 255, 90, 80
		}
		col = e.writeText(row1, col, e.width, "  │  ", 60, 65, 85, bgR, bgG, bgB, false)
		col = e.writeText(row1, col, e.width, v.Notice, nR, nG, nB, bgR, bgG, bgB, false)
	}
	if v.Blueprint != nil {
		done, total := buildProgress(e.grid, v.Blueprint)
		col += 3
		barWidth := e.width - col - len("Built") - 2 - len(fmt.Sprintf("%d/%d", total, total)) - 1
		if barWidth > 24 {
			barWidth = 24
		}
		if barWidth >= 4 {
			e.drawStatBar(row1, col, "Built", done, total, barWidth,
				120, 200, 120, 90, 205, 90, bgR, bgG, bgB)
		}
	}

	// Row 2: palette
	e.drawPalette(hudY+2, v.Palette, v.Selected, bgR, bgG, bgB)

	// Row 3: controls
	e.writeText(hudY+3, 1, e.width, KeyHelp, 130, 130, 145, bgR, bgG, bgB, false)
}

// buildProgress counts the blueprint cells already filled on the build layer.
func buildProgress(g *voxel.Grid, bp *blueprint.Blueprint) (done, total int) {
	for z := 0; z < bp.Height(); z++ {
		for x := 0; x < bp.Width(); x++ {
			if !bp.Needed(x, z) {
				continue
			}
			total++
			if g.Has(voxel.C(x, voxel.SatisfiedLayer, z)) {
				done++
			}
		}
	}
	return done, total
}

// drawPalette draws one swatch per color. Digits label the first nine and
// brackets mark the selection.
func (e *Engine) drawPalette(row int, p voxel.Palette, selected int, bgR, bgG, bgB uint8) {
	col := 1
	for i, c := range p {
		if col+5 > e.width {
			break
		}
		r, g, b := c.RGB()
		open, shut := ' ', ' '
		if i == selected {
			open, shut = '[', ']'
		}
		label := ' '
		if i < 9 {
			label = rune('1' + i)
		}
		col = e.writeText(row, col, e.width, string(open), 255, 255, 255, bgR, bgG, bgB, true)
		col = e.writeText(row, col, e.width, string(label), 150, 150, 165, bgR, bgG, bgB, i == selected)
		col = e.writeText(row, col, e.width, "██", r, g, b, bgR, bgG, bgB, false)
		col = e.writeText(row, col, e.width, string(shut), 255, 255, 255, bgR, bgG, bgB, true)
	}
}

// drawStatBar draws a labeled bar with fill. Returns columns consumed.
func (e *Engine) drawStatBar(row, col int, label string, current, maximum, barWidth int,
	labelR, labelG, labelB, fillR, fillG, fillB, bgR, bgG, bgB uint8) int {
	startCol := col

	// Label
	for _, r := range label {
		if col < e.width && row >= 0 && row < e.height {
			e.next[row][col] = Cell{Ch: r, FgR: labelR, FgG: labelG, FgB: labelB,
				BgR: bgR, BgG: bgG, BgB: bgB, Bold: true}
		}
		col++
	}
	col++ // space

	// Bar
	filled := 0
	if maximum > 0 {
		filled = barWidth * current / maximum
	}
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	for i := 0; i < barWidth; i++ {
		x := col + i
		if x >= e.width || row < 0 || row >= e.height {
			break
		}
		if i < filled {
			e.next[row][x] = Cell{Ch: '█', FgR: fillR, FgG: fillG, FgB: fillB,
				BgR: bgR, BgG: bgG, BgB: bgB}
		} else {
			e.next[row][x] = Cell{Ch: '░', FgR: 45, FgG: 45, FgB: 55,
				BgR: bgR, BgG: bgG, BgB: bgB}
		}
	}
	col += barWidth
	col++ // space

	// Numbers
	numText := fmt.Sprintf("%d/%d", current, maximum)
	for _, r := range numText {
		if col < e.width && row >= 0 && row < e.height {
			e.next[row][col] = Cell{Ch: r, FgR: 180, FgG: 180, FgB: 195,
				BgR: bgR, BgG: bgG, BgB: bgB}
		}
		col++
	}

	return col - startCol
}
