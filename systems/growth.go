package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// Parked is where new segments wait until the next body-follow pass places
// them. It lies outside any world, so the grid never indexes it.
var Parked = components.Position{X: -10000, Y: -10000}

// Growth converts foraging energy into radius and new body segments.
type Growth struct {
	baseRadius float32
	baseLength int
	scale      float32
	maxRadius  float32
	easeRate   float32
	easeEps    float32
	turnSpeed  float32
	turnFloor  float32
	turnDecay  float32
	thrBase    float32
	thrPerSeg  float32
	bodyFactor float32

	pending []ecs.Entity
}

// NewGrowth creates the growth stage.
func NewGrowth(cfg *config.Config) *Growth {
	return &Growth{
		baseRadius: float32(cfg.Growth.BaseRadius),
		baseLength: cfg.Growth.BaseLength,
		scale:      float32(cfg.Growth.GrowthScale),
		maxRadius:  float32(cfg.Growth.MaxRadius),
		easeRate:   float32(cfg.Growth.EaseRate),
		easeEps:    float32(cfg.Growth.EaseEpsilon),
		turnSpeed:  float32(cfg.Snake.TurnSpeed),
		turnFloor:  float32(cfg.Growth.TurnFloor),
		turnDecay:  float32(cfg.Growth.TurnDecay),
		thrBase:    float32(cfg.Growth.ThresholdBase),
		thrPerSeg:  float32(cfg.Growth.ThresholdPerSegment),
		bodyFactor: float32(cfg.Snake.BodyRadiusFactor),
	}
}

// TargetRadius returns the radius an agent of the given length grows toward.
// The curve rises with the square root of the extra segments and is capped.
func (gr *Growth) TargetRadius(length int) float32 {
	extra := float64(max(length-gr.baseLength, 0))
	r := gr.baseRadius + gr.baseRadius*float32(math.Sqrt(extra))*gr.scale
	return min(r, gr.maxRadius)
}

// TurnRate returns the turn rate in radians per second for a radius.
// Larger agents turn more slowly, never below turnFloor of the base rate.
func (gr *Growth) TurnRate(radius float32) float32 {
	excess := max(0, radius-gr.baseRadius)
	return gr.turnSpeed * (gr.turnFloor + (1-gr.turnFloor)*expf(-gr.turnDecay*excess))
}

// Threshold returns the energy needed for the next segment at a length.
func (gr *Growth) Threshold(length int) float32 {
	return gr.thrBase + gr.thrPerSeg*float32(length)
}

// Feed credits energy to a head. When the accumulator reaches the growth
// threshold one segment is queued and the threshold is subtracted.
// Returns true if a segment was queued.
func (gr *Growth) Feed(h *components.SnakeHead, energy float32) bool {
	h.Energy += energy
	h.TotalEnergy += energy
	threshold := gr.Threshold(h.Length())
	if h.Energy >= threshold {
		h.PendingGrowth++
		h.Energy -= threshold
		return true
	}
	return false
}

// BodyRadius returns the collider radius of a segment for a head radius.
func (gr *Growth) BodyRadius(headRadius float32) float32 {
	return headRadius * gr.bodyFactor
}

// Update eases radii, derives turn rates, resyncs colliders and drains
// pending growth into new segments appended at the tail.
// Returns the number of segments created.
func (gr *Growth) Update(s *Store, dt float32) int {
	gr.pending = gr.pending[:0]

	query := s.Heads.Query()
	for query.Next() {
		_, _, _, col, head := query.Get()
		if head.Dead {
			continue
		}

		target := gr.TargetRadius(head.Length())
		if absf(head.Radius-target) > gr.easeEps {
			head.Radius += (target - head.Radius) * gr.easeRate * dt
		}
		head.Radius = min(head.Radius, gr.maxRadius)
		head.TurnRate = gr.TurnRate(head.Radius)
		col.Radius = head.Radius

		bodyR := gr.BodyRadius(head.Radius)
		for _, seg := range head.Segments {
			if s.Alive(seg) {
				s.Collider.Get(seg).Radius = bodyR
			}
		}

		if head.PendingGrowth > 0 {
			gr.pending = append(gr.pending, query.Entity())
		}
	}

	// Segment creation is a structural change, so it runs after iteration.
	created := 0
	for _, e := range gr.pending {
		n := s.Head.Get(e).PendingGrowth
		for i := 0; i < n; i++ {
			head := s.Head.Get(e)
			idx := head.NextSegmentIndex()
			seg := s.NewSegment(Parked, gr.BodyRadius(head.Radius), e, idx)
			// Re-fetch: creating entities may move component storage.
			head = s.Head.Get(e)
			head.Segments = append(head.Segments, seg)
			head.PendingGrowth--
			created++
		}
	}
	return created
}
