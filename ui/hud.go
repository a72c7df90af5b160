package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/systems"
	"github.com/pthm-cable/serpent/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	AICount  int
	LiveFood int
	Frame    uint64
	SimTime  float64
	FPS      int32
	Paused   bool
	Mode     components.ControlMode
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("AI: %d | Food: %d", data.AICount, data.LiveFood),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | Time: %.0fs | FPS: %d | Steer: %s", data.Frame, data.SimTime, data.FPS, data.Mode),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, hints [][2]string) {
	h.renderer.DrawKeyHint(10, screenHeight-25, hints)
}

// PlayerPanel shows the player's head fields.
type PlayerPanel struct {
	renderer *Renderer
	fields   []components.FieldDescriptor
	width    int32
}

// NewPlayerPanel creates a player panel listing every head field.
func NewPlayerPanel(width int32) *PlayerPanel {
	return &PlayerPanel{
		renderer: NewRenderer(),
		fields:   components.HeadFieldDescriptors(),
		width:    width,
	}
}

// Draw renders the panel anchored to the bottom-left corner.
func (p *PlayerPanel) Draw(head *components.SnakeHead, screenW, screenH int32) {
	if head == nil {
		return
	}
	r := p.renderer
	padding := r.Theme.Padding
	height := int32(len(p.fields)+1)*(r.Theme.LineHeight+2) + padding*2
	x, y := Anchor(AnchorBottomLeft, p.width, height, screenW, screenH, 40)

	r.DrawPanel(x, y, p.width, height)
	y = r.DrawSectionHeader(x+padding, y+padding, "Player")
	for _, fd := range p.fields {
		y = r.DrawHeadField(x+padding, y, fd, head, p.width-padding*2)
	}
}

// PerfPanel renders the per-stage timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders stage timings in pipeline order, labelled from the registry.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	x := p.x
	y := p.y

	rl.DrawText("Stage Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	rl.DrawText(fmt.Sprintf("Load: %.0f heads, %.0f segments (%.0f ns/seg)", stats.AvgHeads, stats.AvgSegments, stats.NsPerSegment), x, y, 12, rl.LightGray)
	y += 16

	for _, id := range registry.IDs() {
		avg := stats.Avg(id)
		pct := stats.Pct(id)

		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
