package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/serpent/components"
)

// ParticleType identifies the type of effect particle.
type ParticleType uint8

const (
	ParticleEat ParticleType = iota
	ParticleDeath
)

// EffectParticle represents a visual feedback particle in world coordinates.
type EffectParticle struct {
	X, Y       float32
	VelX, VelY float32 // World units per second
	Life       float32 // Seconds remaining
	MaxLife    float32
	Type       ParticleType
	Size       float32
	Skin       components.Skin
}

// ParticleSystem manages effect particles for visual feedback. It never
// touches simulation state.
type ParticleSystem struct {
	Particles    []EffectParticle
	maxParticles int
	rng          *rand.Rand
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(maxParticles int, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{
		Particles:    make([]EffectParticle, 0, maxParticles),
		maxParticles: maxParticles,
		rng:          rng,
	}
}

// Update ages and moves all particles, dropping expired ones.
func (s *ParticleSystem) Update(dt float32) {
	drag := float32(math.Pow(0.05, float64(dt)))
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life -= dt
		if p.Life <= 0 {
			continue
		}

		p.VelX *= drag
		p.VelY *= drag
		p.X += p.VelX * dt
		p.Y += p.VelY * dt

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// EmitEat emits a small burst scaled by the energy eaten.
func (s *ParticleSystem) EmitEat(x, y, energy float32, skin components.Skin) {
	count := 3 + int(min(energy, 10))
	for range count {
		s.emit(x, y, ParticleEat, 60, 0.4, 2+s.rng.Float32()*2, skin)
	}
}

// EmitDeath emits a burst at a dead agent's head.
func (s *ParticleSystem) EmitDeath(x, y, radius float32, skin components.Skin) {
	count := 12 + s.rng.Intn(8)
	for range count {
		s.emit(x, y, ParticleDeath, 120+radius*2, 0.9, radius*0.2+s.rng.Float32()*3, skin)
	}
}

func (s *ParticleSystem) emit(x, y float32, ptype ParticleType, speed, life, size float32, skin components.Skin) {
	if len(s.Particles) >= s.maxParticles {
		return
	}
	angle := s.rng.Float64() * 2 * math.Pi
	v := speed * (0.5 + s.rng.Float32()*0.5)
	l := life * (0.7 + s.rng.Float32()*0.6)
	s.Particles = append(s.Particles, EffectParticle{
		X:       x,
		Y:       y,
		VelX:    float32(math.Cos(angle)) * v,
		VelY:    float32(math.Sin(angle)) * v,
		Life:    l,
		MaxLife: l,
		Type:    ptype,
		Size:    size,
		Skin:    skin,
	})
}

// Count returns the number of live particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}

// Reset removes every particle.
func (s *ParticleSystem) Reset() {
	s.Particles = s.Particles[:0]
}
