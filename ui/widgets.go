package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/components"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled bar filled to value/maxVal with the value text
// to its right.
func (r *Renderer) DrawBar(x, y int32, label string, value, maxVal float32, text string, width int32) int32 {
	ratio := float32(0)
	if maxVal > 0 {
		ratio = min(max(value/maxVal, 0), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	barColor := r.Theme.BarFillHigh
	if ratio < 0.3 {
		barColor = r.Theme.BarFillLow
	} else if ratio < 0.6 {
		barColor = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, barColor)

	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawHeadField renders one described head field as text or a bar.
func (r *Renderer) DrawHeadField(x, y int32, fd components.FieldDescriptor, head *components.SnakeHead, width int32) int32 {
	value, text := head.FieldValue(fd)
	if fd.IsBar {
		return r.DrawBar(x, y, fd.Label, value, fd.Max, text, width)
	}
	return r.DrawLabelValue(x, y, fd.Label, text)
}

// DrawKeyHint draws "[key] action" pairs on one line and returns the new Y.
func (r *Renderer) DrawKeyHint(x, y int32, hints [][2]string) int32 {
	for _, h := range hints {
		text := fmt.Sprintf("[%s] %s", h[0], h[1])
		rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		x += rl.MeasureText(text, r.Theme.FontSize) + 12
	}
	return y + r.Theme.LineHeight
}
