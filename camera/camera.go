// Package camera provides a 2D camera that follows the player over a
// bounded world.
package camera

import (
	"math"

	"github.com/pthm-cable/serpent/config"
)

// Camera controls the viewport into the simulation world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 0.5 = world drawn at half size)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Follow tuning
	FollowRate float32 // Position easing rate (1/s)
	ZoomRate   float32 // Zoom easing rate (1/s)
	ZoomScale  float32 // Zoom-out gained per sqrt of extra radius
	MaxZoomOut float32
	BaseRadius float32 // Radius at which no zoom-out is applied
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	return &Camera{
		X:          worldW / 2,
		Y:          worldH / 2,
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		FollowRate: 5,
		ZoomRate:   1.5,
		ZoomScale:  0.12,
		MaxZoomOut: 4,
		BaseRadius: 20,
	}
}

// FromConfig creates a camera sized to the configured screen and world.
func FromConfig(cfg *config.Config) *Camera {
	c := New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	c.FollowRate = float32(cfg.Camera.FollowRate)
	c.ZoomRate = float32(cfg.Camera.ZoomRate)
	c.ZoomScale = float32(cfg.Camera.ZoomScale)
	c.MaxZoomOut = float32(cfg.Camera.MaxZoomOut)
	c.BaseRadius = float32(cfg.Growth.BaseRadius)
	return c
}

// TargetZoom returns the zoom for a followed agent of the given radius.
// Larger agents see more of the world.
func (c *Camera) TargetZoom(radius float32) float32 {
	out := 1 + float32(math.Sqrt(float64(max(0, radius-c.BaseRadius))))*c.ZoomScale
	return 1 / min(out, c.MaxZoomOut)
}

// Follow eases the camera toward (x, y) and the zoom for radius. With snap
// set, as during spawn protection, the camera jumps to the target instead.
func (c *Camera) Follow(x, y, radius float32, snap bool, dt float32) {
	zoom := c.TargetZoom(radius)
	if snap {
		c.X, c.Y, c.Zoom = x, y, zoom
		return
	}
	c.X += (x - c.X) * min(1, c.FollowRate*dt)
	c.Y += (y - c.Y) * min(1, c.FollowRate*dt)
	c.Zoom += (zoom - c.Zoom) * min(1, c.ZoomRate*dt)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the world center at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
