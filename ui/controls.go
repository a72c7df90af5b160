package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/telemetry"
)

// ControlsPanel renders the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

// StatsPanel renders the most recent stats window.
type StatsPanel struct {
	renderer *Renderer
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(width int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the panel anchored to the top-right corner.
func (q *StatsPanel) Draw(ws telemetry.WindowStats, screenW, screenH int32) {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	height := lineHeight*7 + padding*2

	x, y := Anchor(AnchorTopRight, q.width, height, screenW, screenH, 10)
	r.DrawPanel(x, y, q.width, height)
	y += padding

	rl.DrawText(fmt.Sprintf("Window @ %.0fs", ws.SimTimeSec), x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(x+padding, y, "Eat/s", fmt.Sprintf("%.1f", ws.EatRate))
	y = r.DrawLabelValue(x+padding, y, "Deaths", fmt.Sprintf("%d (%d kills)", ws.BoundaryDeaths+ws.BodyDeaths, ws.Kills))
	y = r.DrawLabelValue(x+padding, y, "Spawns", fmt.Sprintf("%d", ws.AISpawns))
	y = r.DrawLabelValue(x+padding, y, "Length", fmt.Sprintf("%.1f +- %.1f", ws.LengthMean, ws.LengthStd))
	r.DrawLabelValue(x+padding, y, "Longest", fmt.Sprintf("%.0f", ws.LengthMax))
}
