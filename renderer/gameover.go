package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// GameOverData is the summary shown after the player dies.
type GameOverData struct {
	Length     int
	PeakLength int
	Kills      int
	Survival   float32
	Rank       int // Hall of fame rank, -1 if unplaced
}

// GameOverPanel draws the end-of-game panel with a restart button.
type GameOverPanel struct {
	width, height float32
}

// NewGameOverPanel creates the panel.
func NewGameOverPanel() *GameOverPanel {
	return &GameOverPanel{width: 320, height: 214}
}

// Draw renders the panel centered on screen and reports whether restart
// was clicked.
func (p *GameOverPanel) Draw(data GameOverData, screenW, screenH float32) bool {
	rl.DrawRectangle(0, 0, int32(screenW), int32(screenH), rl.Fade(rl.Black, 0.5))

	x := (screenW - p.width) / 2
	y := (screenH - p.height) / 2
	gui.Panel(rl.Rectangle{X: x, Y: y, Width: p.width, Height: p.height}, "Game Over")

	lines := []string{
		fmt.Sprintf("Length: %d (peak %d)", data.Length, data.PeakLength),
		fmt.Sprintf("Kills: %d", data.Kills),
		fmt.Sprintf("Survived: %.1fs", data.Survival),
	}
	switch {
	case data.Rank == 0:
		lines = append(lines, "New best of the session!")
	case data.Rank > 0:
		lines = append(lines, fmt.Sprintf("Hall of fame: #%d", data.Rank+1))
	}
	ly := y + 36
	for _, line := range lines {
		gui.Label(rl.Rectangle{X: x + 20, Y: ly, Width: p.width - 40, Height: 20}, line)
		ly += 24
	}

	return gui.Button(rl.Rectangle{X: x + (p.width-120)/2, Y: y + p.height - 46, Width: 120, Height: 30}, "Restart")
}
