package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// Locomotion integrates heads and threads body segments along each head's
// path history.
type Locomotion struct {
	sampleDist float32
}

// NewLocomotion creates the locomotion stage.
func NewLocomotion(cfg *config.Config) *Locomotion {
	return &Locomotion{sampleDist: float32(cfg.Snake.SampleDistance)}
}

// TurnToward moves a heading toward target by at most maxStep degrees along
// the shorter arc.
func TurnToward(angle, target, maxStep float32) float32 {
	diff := NormalizeDegrees(target - angle)
	if absf(diff) <= maxStep {
		return NormalizeDegrees(target)
	}
	if diff < 0 {
		maxStep = -maxStep
	}
	return NormalizeDegrees(angle + maxStep)
}

// MoveHeads turns every head toward its target heading, advances it, samples
// its path history by arc length and counts down spawn protection.
func (l *Locomotion) MoveHeads(s *Store, dt float32) {
	query := s.Heads.Query()
	for query.Next() {
		pos, heading, motion, _, head := query.Get()
		if head.Dead {
			continue
		}
		l.moveHead(pos, heading, motion, head, dt)
	}
}

func (l *Locomotion) moveHead(pos *components.Position, heading *components.Heading, motion *components.Motion, head *components.SnakeHead, dt float32) {
	maxTurn := head.TurnRate * dt * radToDeg
	heading.Angle = TurnToward(heading.Angle, heading.Target, maxTurn)

	dx, dy := unitVector(heading.Angle)
	step := motion.Speed * dt
	pos.X += dx * step
	pos.Y += dy * step

	head.History.Travel += absf(step)
	if head.History.Travel >= l.sampleDist {
		head.History.Push(*pos)
		head.History.Travel = 0
	}

	if head.SpawnProtection > 0 {
		head.SpawnProtection -= dt
	}
}

// FollowBodies places each head's segments at successive multiples of the
// segment spacing along the path from the head back through its history,
// and migrates their grid membership. Segments past the end of the recorded
// path are pinned to the oldest point.
func (l *Locomotion) FollowBodies(s *Store, grid *SpatialGrid) {
	query := s.Heads.Query()
	for query.Next() {
		pos, _, _, _, head := query.Get()
		if head.Dead || len(head.Segments) == 0 {
			continue
		}
		l.follow(s, grid, *pos, head)
	}
}

func (l *Locomotion) follow(s *Store, grid *SpatialGrid, start components.Position, head *components.SnakeHead) {
	spacing := head.Spacing()
	segs := head.Segments

	walked := float32(0)
	want := spacing
	idx := 0
	cur := start

	for i := 0; i < head.History.Len() && idx < len(segs); i++ {
		next := head.History.Recent(i)
		ddx := next.X - cur.X
		ddy := next.Y - cur.Y
		segLen := sqrtf(ddx*ddx + ddy*ddy)

		for idx < len(segs) && walked+segLen >= want {
			t := float32(0)
			if segLen > 0.001 {
				t = (want - walked) / segLen
			}
			place(s, grid, segs[idx], components.Position{X: cur.X + t*ddx, Y: cur.Y + t*ddy})
			idx++
			want += spacing
		}

		walked += segLen
		cur = next
	}

	for ; idx < len(segs); idx++ {
		place(s, grid, segs[idx], cur)
	}
}

// place moves a segment and keeps its grid membership in step.
func place(s *Store, grid *SpatialGrid, seg ecs.Entity, to components.Position) {
	if !s.Alive(seg) {
		return
	}
	p := s.Pos.Get(seg)
	grid.MigrateBody(seg, p.X, p.Y, to.X, to.Y)
	*p = to
}
