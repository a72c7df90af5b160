// Package components defines ECS components for the arena simulation.
package components

import "github.com/mlange-42/ark/ecs"

// DeathCause records why a head was marked dead.
type DeathCause uint8

const (
	CauseNone     DeathCause = iota
	CauseBoundary            // Left the world extent
	CauseBody                // Ran into another agent's body
)

func (c DeathCause) String() string {
	switch c {
	case CauseBoundary:
		return "boundary"
	case CauseBody:
		return "body"
	default:
		return "none"
	}
}

// Skin identifies how an agent and its dropped food are drawn.
// Set is an index into the renderer's sprite pool, or -1 for a flat colour.
type Skin struct {
	Set     int
	R, G, B uint8
}

// NoSprite is the Skin.Set value for colour-only agents.
const NoSprite = -1

// SnakeHead holds per-agent state for the head entity.
type SnakeHead struct {
	Radius        float32 // Current radius, eased toward the growth target
	TurnRate      float32 // Max heading change, radians per second
	SpacingFactor float32 // Fraction of diameter between segments
	Magnet        float32 // Food within this range is pulled in

	History  PathHistory
	Segments []ecs.Entity // Owned body segments, head to tail
	nextIdx  int

	PendingGrowth int
	Energy        float32 // Accumulator toward the next segment
	TotalEnergy   float32

	Dead   bool
	Cause  DeathCause
	Killer ecs.Entity // Owner of the segment that was hit, if any

	SpawnProtection float32 // Seconds of remaining immunity
	Skin            Skin
}

// Length returns the number of owned body segments.
func (h *SnakeHead) Length() int {
	return len(h.Segments)
}

// Spacing returns the arc length between consecutive segments.
func (h *SnakeHead) Spacing() float32 {
	return h.Radius * 2 * h.SpacingFactor
}

// Protected reports whether spawn protection is still active.
func (h *SnakeHead) Protected() bool {
	return h.SpawnProtection > 0
}

// NextSegmentIndex returns a fresh, strictly increasing segment index.
func (h *SnakeHead) NextSegmentIndex() int {
	idx := h.nextIdx
	h.nextIdx++
	return idx
}

// PathHistory is a bounded, insertion-ordered ring of past head positions.
// Once Limit points are held, each Push evicts the oldest. A zero Limit
// means unbounded.
type PathHistory struct {
	points []Position
	start  int
	count  int
	Limit  int

	// Travel is arc length accumulated since the last sample.
	Travel float32
}

// NewPathHistory returns an empty history retaining at most limit points.
func NewPathHistory(limit int) PathHistory {
	return PathHistory{Limit: limit}
}

// Push appends p, evicting the oldest point if the history is full.
func (h *PathHistory) Push(p Position) {
	if h.Limit <= 0 || h.count < h.Limit {
		h.points = append(h.points, p)
		h.count++
		return
	}
	h.points[h.start] = p
	h.start = (h.start + 1) % h.count
}

// Len returns the number of retained points.
func (h *PathHistory) Len() int {
	return h.count
}

// At returns the i-th point counting from the oldest.
func (h *PathHistory) At(i int) Position {
	return h.points[(h.start+i)%h.count]
}

// Recent returns the i-th point counting back from the newest.
func (h *PathHistory) Recent(i int) Position {
	return h.At(h.count - 1 - i)
}

// Oldest returns the oldest retained point.
func (h *PathHistory) Oldest() Position {
	return h.At(0)
}

// Reset drops all points.
func (h *PathHistory) Reset() {
	h.points = h.points[:0]
	h.start = 0
	h.count = 0
	h.Travel = 0
}
