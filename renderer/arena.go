// Package renderer draws the arena with raylib. It only reads simulation
// state.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/camera"
	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/systems"
)

var (
	backgroundColor = rl.Color{R: 18, G: 22, B: 28, A: 255}
	outsideColor    = rl.Color{R: 40, G: 12, B: 12, A: 255}
	borderColor     = rl.Color{R: 200, G: 60, B: 60, A: 255}
	gridColor       = rl.Color{R: 255, G: 255, B: 255, A: 18}
	magnetColor     = rl.Color{R: 120, G: 200, B: 255, A: 60}
	colliderColor   = rl.Color{R: 0, G: 255, B: 0, A: 120}
	shieldColor     = rl.Color{R: 255, G: 255, B: 255, A: 140}
)

// ArenaRenderer draws the world, food and agents through a camera.
type ArenaRenderer struct {
	cam            *camera.Camera
	worldW, worldH float32
	cellSize       float32
	time           float32
}

// NewArenaRenderer creates a renderer for a world of the given size.
func NewArenaRenderer(cam *camera.Camera, worldW, worldH, cellSize float32) *ArenaRenderer {
	return &ArenaRenderer{cam: cam, worldW: worldW, worldH: worldH, cellSize: cellSize}
}

// Advance moves the animation clock.
func (a *ArenaRenderer) Advance(dt float32) {
	a.time += dt
}

// DrawWorld clears the screen, shades the area outside the world and draws
// its border.
func (a *ArenaRenderer) DrawWorld() {
	rl.ClearBackground(outsideColor)

	x0, y0 := a.cam.WorldToScreen(0, 0)
	x1, y1 := a.cam.WorldToScreen(a.worldW, a.worldH)
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1 - x0, Y: y1 - y0}, backgroundColor)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 3, borderColor)
}

// DrawGrid draws spatial grid cell boundaries within the view.
func (a *ArenaRenderer) DrawGrid() {
	minX, minY, maxX, maxY := a.cam.VisibleWorldBounds()
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, a.worldW), min(maxY, a.worldH)

	startX := float32(math.Floor(float64(minX/a.cellSize))) * a.cellSize
	for x := startX; x <= maxX; x += a.cellSize {
		sx, sy0 := a.cam.WorldToScreen(x, minY)
		_, sy1 := a.cam.WorldToScreen(x, maxY)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy0}, rl.Vector2{X: sx, Y: sy1}, gridColor)
	}
	startY := float32(math.Floor(float64(minY/a.cellSize))) * a.cellSize
	for y := startY; y <= maxY; y += a.cellSize {
		sx0, sy := a.cam.WorldToScreen(minX, y)
		sx1, _ := a.cam.WorldToScreen(maxX, y)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy}, rl.Vector2{X: sx1, Y: sy}, gridColor)
	}
}

// DrawFood draws every visible active food item.
func (a *ArenaRenderer) DrawFood(foods []systems.Food) {
	zoom := a.cam.Zoom
	for i := range foods {
		f := &foods[i]
		if !f.Active || !a.cam.IsVisible(f.X, f.Y, f.Radius) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(f.X, f.Y)
		c := skinColor(f.Skin, 0)
		if f.Kind == systems.FoodMassDrop {
			// Remains glow faintly.
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, f.Radius*zoom*1.6, rl.Fade(c, 0.25))
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, max(f.Radius*zoom, 1), c)
	}
}

// SnakeOptions selects optional per-agent decorations.
type SnakeOptions struct {
	Magnet    bool
	Danger    bool
	Colliders bool
}

// DrawSnake draws one agent, tail first so the head ends on top.
func (a *ArenaRenderer) DrawSnake(v *game.SnakeView, opts SnakeOptions) {
	zoom := a.cam.Zoom

	for i := len(v.Segments) - 1; i >= 0; i-- {
		p := v.Segments[i]
		if !a.cam.IsVisible(p.X, p.Y, v.BodyR) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, v.BodyR*zoom, skinColor(v.Skin, i+1))
		if opts.Colliders {
			rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, v.BodyR*zoom, colliderColor)
		}
	}

	if !a.cam.IsVisible(v.X, v.Y, max(v.Radius, v.Magnet)) {
		return
	}
	sx, sy := a.cam.WorldToScreen(v.X, v.Y)
	center := rl.Vector2{X: sx, Y: sy}
	r := v.Radius * zoom

	if opts.Magnet {
		rl.DrawCircleLinesV(center, v.Magnet*zoom, magnetColor)
	}

	headColor := skinColor(v.Skin, 0)
	if v.Dead {
		headColor = rl.Gray
	} else if opts.Danger && !v.Player {
		headColor = dangerColor(v.FrontDanger)
	}
	rl.DrawCircleV(center, r, headColor)
	if opts.Colliders {
		rl.DrawCircleLinesV(center, r, colliderColor)
	}

	// Blink while protected.
	if v.Protected && int(a.time*6)%2 == 0 {
		rl.DrawCircleLinesV(center, r+3, shieldColor)
	}

	a.drawEyes(center, r, v.Heading)
}

// drawEyes draws two eyes facing the heading.
func (a *ArenaRenderer) drawEyes(center rl.Vector2, r, heading float32) {
	rad := float64(heading) * math.Pi / 180
	fx, fy := float32(math.Cos(rad)), float32(math.Sin(rad))
	px, py := -fy, fx

	for _, side := range []float32{-1, 1} {
		ex := center.X + fx*r*0.45 + px*r*0.4*side
		ey := center.Y + fy*r*0.45 + py*r*0.4*side
		rl.DrawCircleV(rl.Vector2{X: ex, Y: ey}, r*0.28, rl.White)
		rl.DrawCircleV(rl.Vector2{X: ex + fx*r*0.08, Y: ey + fy*r*0.08}, r*0.14, rl.Black)
	}
}

// skinColor returns the colour of segment i. Sprite sets stripe the body in
// a set-specific rhythm; colour-only skins are uniform.
func skinColor(skin components.Skin, i int) rl.Color {
	c := rl.Color{R: skin.R, G: skin.G, B: skin.B, A: 255}
	if skin.Set == components.NoSprite {
		return c
	}
	period := skin.Set + 2
	if i%period == period-1 {
		return rl.ColorBrightness(c, -0.35)
	}
	return c
}

// dangerColor maps frontal danger to a green-to-red tint.
func dangerColor(danger float32) rl.Color {
	t := min(max(-danger/500, 0), 1)
	return rl.Color{R: uint8(80 + 175*t), G: uint8(220 - 180*t), B: 60, A: 255}
}
