package main

import (
	"fmt"
	"time"

	"github.com/taigrr/retroview/pkg/render"
)

// HUD draws a status overlay straight onto the terminal after each flush.
type HUD struct {
	Show bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS counts a frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the top and bottom rows of a width x height terminal.
func (h *HUD) Render(width, height int, stats render.FrameStats, view render.Viewpoint, scene *Scene) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Clear the rows even when hidden so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.Show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	pos := fmt.Sprintf(" %.0f,%.0f %.0f° ", view.X.Float(), view.Y.Float(), view.Angle.Degrees())
	fmt.Print(moveTo(1, max((width-len(pos))/2, 1)) + bold + bgBlack + fgWhite + pos + reset)

	counts := fmt.Sprintf(" %d nodes %d segs %d cols ", stats.NodesVisited, stats.Segs, stats.Columns)
	fmt.Print(moveTo(1, max(width-len(counts), 1)) + bgBlack + fgCyan + counts + reset)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s fuzz: %s %s paused  %s ranges %s",
		bgBlack, fgWhite, scene.Fuzz, check(scene.FuzzPaused), check(scene.ShowRanges), reset)
	fmt.Print(moveTo(height, 1) + modes)

	hint := fmt.Sprintf("%s%s%s ? hud  esc quit %s", bgBlack, dim, fgWhite, reset)
	fmt.Print(moveTo(height, max(width-16, 1)) + hint)
}
