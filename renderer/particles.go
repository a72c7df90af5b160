package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/camera"
	"github.com/pthm-cable/serpent/systems"
)

// ParticleRenderer renders effect particles.
type ParticleRenderer struct {
	cam *camera.Camera
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(cam *camera.Camera) *ParticleRenderer {
	return &ParticleRenderer{cam: cam}
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw(particles []systems.EffectParticle) {
	zoom := r.cam.Zoom
	for i := range particles {
		p := &particles[i]
		if p.MaxLife <= 0 || !r.cam.IsVisible(p.X, p.Y, p.Size) {
			continue
		}

		lifeRatio := p.Life / p.MaxLife

		color := skinColor(p.Skin, 0)
		switch p.Type {
		case systems.ParticleEat:
			color = rl.ColorBrightness(color, 0.4)
			color.A = uint8(lifeRatio * 220)
		case systems.ParticleDeath:
			color.A = uint8(lifeRatio * 170)
		}

		size := max(p.Size*lifeRatio*zoom, 0.5)
		sx, sy := r.cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
