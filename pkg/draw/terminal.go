package draw

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/retroview/pkg/palette"
)

// Draw converts the screen to terminal cells and draws them on scr.
// Each terminal row shows two screen rows with ▀ (upper half block):
// foreground is the top pixel, background the bottom one.
func (s *Screen) Draw(scr uv.Screen, area uv.Rectangle, pal *palette.Palette) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= s.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= s.Width {
				break
			}
			top := pal[s.At(x, topY)]
			var bot color.Color
			if botY < s.Height {
				bot = pal[s.At(x, botY)]
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}
