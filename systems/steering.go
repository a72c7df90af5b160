package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// headSnapshot is a read-only copy of another head for danger prediction.
type headSnapshot struct {
	e            ecs.Entity
	predX, predY float32
}

// playerSnapshot is the flanking target for skilled agents.
type playerSnapshot struct {
	ok         bool
	x, y       float32
	dirX, dirY float32
	radius     float32
}

// Steering drives AI heads with a context map: each of N compass slots gets
// a danger and an interest score, and the best combined slot becomes the new
// heading. Full evaluations are staggered across frames; in between, agents
// wander around their last choice.
type Steering struct {
	cfg    config.AIConfig
	width  float32
	height float32
	step   float32 // degrees between slots
	rng    *rand.Rand

	dirX, dirY []float32
	danger     []float32
	interest   []float32
	smoothed   []float32

	others []headSnapshot
	player playerSnapshot
}

// ContextMap is the outcome of one heavy evaluation.
type ContextMap struct {
	Danger    []float32
	Interest  []float32
	Best      int
	FoodScore float32
}

// NewSteering creates the steering stage.
func NewSteering(cfg *config.Config, rng *rand.Rand) *Steering {
	n := cfg.AI.Slots
	st := &Steering{
		cfg:      cfg.AI,
		width:    cfg.Derived.WorldW32,
		height:   cfg.Derived.WorldH32,
		step:     cfg.Derived.SlotStep,
		rng:      rng,
		dirX:     make([]float32, n),
		dirY:     make([]float32, n),
		danger:   make([]float32, n),
		interest: make([]float32, n),
		smoothed: make([]float32, n),
	}
	for i := 0; i < n; i++ {
		st.dirX[i], st.dirY[i] = unitVector(float32(i) * st.step)
	}
	return st
}

// SlotAngle returns the heading of a slot in degrees.
func (st *Steering) SlotAngle(slot int) float32 {
	return NormalizeDegrees(float32(slot) * st.step)
}

// HeavyTick reports whether an agent runs a full evaluation this frame.
func (st *Steering) HeavyTick(frame uint64, e ecs.Entity) bool {
	return (frame+uint64(e.ID()))%uint64(st.cfg.HeavyInterval) == 0
}

// Steer turns a target heading toward desired, limited per call to
// max(min step, steer rate * dt) degrees.
func (st *Steering) Steer(heading *components.Heading, desired, dt float32) {
	maxStep := max(float32(st.cfg.MinSteerStep), float32(st.cfg.SteerRate)*dt)
	diff := clampFloat(NormalizeDegrees(desired-heading.Target), -maxStep, maxStep)
	heading.Target = NormalizeDegrees(heading.Target + diff)
}

// Update steers every live AI head. Speeds ease toward each agent's last
// desired speed every frame.
func (st *Steering) Update(s *Store, food *FoodEconomy, frame uint64, dt float32) {
	st.snapshot(s)

	query := s.AIs.Query()
	for query.Next() {
		pos, heading, motion, head, ai := query.Get()
		if head.Dead {
			continue
		}
		e := query.Entity()

		if st.HeavyTick(frame, e) {
			cm := st.Evaluate(e, pos, heading, head, ai, food)
			st.Steer(heading, st.SlotAngle(cm.Best), dt)
			ai.DesiredSpeed = st.desiredSpeed(heading, ai, cm)
		} else {
			phase := float64(frame+uint64(e.ID())) * st.cfg.WanderFrequency
			wander := float32(math.Sin(phase) * st.cfg.WanderAmplitude)
			st.Steer(heading, heading.Target+wander, dt)
		}

		motion.Speed += (ai.DesiredSpeed - motion.Speed) * float32(st.cfg.Accel) * dt
	}
}

// snapshot copies every live head's predicted position and the player's
// pose so the AI loop does not nest queries.
func (st *Steering) snapshot(s *Store) {
	st.others = st.others[:0]
	lead := float32(st.cfg.PredictSpeed * st.cfg.PredictTime)

	query := s.Heads.Query()
	for query.Next() {
		pos, heading, _, _, head := query.Get()
		if head.Dead {
			continue
		}
		dx, dy := unitVector(heading.Angle)
		st.others = append(st.others, headSnapshot{
			e:     query.Entity(),
			predX: pos.X + dx*lead,
			predY: pos.Y + dy*lead,
		})
	}

	st.player = playerSnapshot{}
	pq := s.Players.Query()
	for pq.Next() {
		pos, heading, head, _ := pq.Get()
		if head.Dead {
			continue
		}
		dx, dy := unitVector(heading.Angle)
		st.player = playerSnapshot{ok: true, x: pos.X, y: pos.Y, dirX: dx, dirY: dy, radius: head.Radius}
	}
}

// Evaluate builds the danger and interest maps for one agent, applies
// momentum and picks the best slot. The agent's AI state records the choice
// and frontal danger diagnostics. The returned slices are reused by the next
// call.
func (st *Steering) Evaluate(e ecs.Entity, pos *components.Position, heading *components.Heading, head *components.SnakeHead, ai *components.AI, food *FoodEconomy) ContextMap {
	st.computeDanger(e, pos, head, food)
	foodScore := st.computeInterest(e, pos, ai, food)
	forward := st.forwardSlot(heading.Angle)
	st.applyMomentum(forward, ai.PrevSlot)

	best := 0
	bestScore := float32(math.Inf(-1))
	for i := range st.danger {
		if score := st.interest[i] + st.danger[i]; score > bestScore {
			bestScore = score
			best = i
		}
	}

	n := len(st.danger)
	ai.PrevSlot = best
	ai.FoodScore = foodScore
	ai.FrontDanger = st.danger[forward]
	ai.LeftDanger = st.danger[(forward+n-1)%n]
	ai.RightDanger = st.danger[(forward+1)%n]

	return ContextMap{Danger: st.danger, Interest: st.interest, Best: best, FoodScore: foodScore}
}

// computeDanger fills st.danger. Probes that leave the world or land near a
// body are penalised, closer probes more heavily; so are directions crossing
// another head's predicted position. A circular 1-2-1 filter smooths the map.
func (st *Steering) computeDanger(self ecs.Entity, pos *components.Position, head *components.SnakeHead, food *FoodEconomy) {
	probe := float32(st.cfg.ProbeLength)
	width := head.Radius * 2

	for i := range st.danger {
		dx, dy := st.dirX[i], st.dirY[i]
		d := float32(0)

		for _, factor := range [2]float32{0.5, 1.0} {
			sx := pos.X + dx*probe*factor
			sy := pos.Y + dy*probe*factor
			if sx < 0 || sy < 0 || sx > st.width || sy > st.height {
				d -= float32(st.cfg.EdgePenalty)
				continue
			}
			// Own segments count too; the occupancy test is cell-coarse and
			// does not look at owners.
			if !food.IsAreaSafe(sx, sy) {
				d -= float32(st.cfg.BodyPenalty) * expf(-factor)
			}
		}

		for _, o := range st.others {
			if o.e == self {
				continue
			}
			rx := o.predX - pos.X
			ry := o.predY - pos.Y
			proj := rx*dx + ry*dy
			if proj <= 0 || proj >= probe {
				continue
			}
			if absf(rx*dy-ry*dx) < width {
				d -= float32(st.cfg.HeadPenalty) * expf(-proj/probe)
			}
		}

		st.danger[i] = d
	}

	n := len(st.danger)
	for i := range st.danger {
		l := st.danger[(i+n-1)%n]
		r := st.danger[(i+1)%n]
		st.smoothed[i] = (l + 2*st.danger[i] + r) / 4
	}
	copy(st.danger, st.smoothed)
}

// computeInterest fills st.interest and returns the food score: the best
// alignment of any slot with the nearest MassDrop, or 0 without one.
func (st *Steering) computeInterest(e ecs.Entity, pos *components.Position, ai *components.AI, food *FoodEconomy) float32 {
	jitter := float32(st.cfg.Jitter)
	for i := range st.interest {
		st.interest[i] = (st.rng.Float32()*2 - 1) * jitter
	}

	foodScore := float32(0)
	if fx, fy, ok := food.NearestMassDrop(pos.X, pos.Y, float32(st.cfg.FoodRange)); ok {
		foodScore = st.attract(pos, fx, fy, float32(st.cfg.FoodWeight))
	}

	if st.player.ok && ai.Level >= st.cfg.FlankLevel {
		p := st.player
		side := float32(1)
		if e.ID()%2 != 0 {
			side = -1
		}
		offset := side * p.radius * float32(st.cfg.FlankOffset)
		lead := float32(st.cfg.FlankLead)
		// Perpendicular to the player's heading.
		tx := p.x + p.dirX*lead - p.dirY*offset
		ty := p.y + p.dirY*lead + p.dirX*offset
		st.attract(pos, tx, ty, float32(st.cfg.FlankWeight))
	}
	return foodScore
}

// attract adds weight*cos(angle) to every slot facing (tx, ty) and returns
// the largest cosine.
func (st *Steering) attract(pos *components.Position, tx, ty, weight float32) float32 {
	dx := tx - pos.X
	dy := ty - pos.Y
	if l := sqrtf(dx*dx + dy*dy); l > 0.001 {
		dx /= l
		dy /= l
	}
	best := float32(0)
	for i := range st.interest {
		dot := dx*st.dirX[i] + dy*st.dirY[i]
		if dot > 0 {
			st.interest[i] += dot * weight
			best = max(best, dot)
		}
	}
	return best
}

// forwardSlot returns the slot nearest a heading.
func (st *Steering) forwardSlot(angle float32) int {
	n := len(st.danger)
	slot := int(math.Round(float64(NormalizeDegrees(angle)/st.step))) % n
	if slot < 0 {
		slot += n
	}
	return slot
}

// applyMomentum favours the forward and previously chosen slots, damped by
// their danger so momentum never overrides an imminent threat.
func (st *Steering) applyMomentum(forward, prev int) {
	decay := float32(st.cfg.MomentumDecay)
	boost := func(slot int, weight float32) {
		st.interest[slot] += weight * expf(st.danger[slot]*decay)
	}
	boost(forward, float32(st.cfg.ForwardMomentum))
	if prev >= 0 && prev < len(st.interest) {
		boost(prev, float32(st.cfg.PrevMomentum))
	}
}

// desiredSpeed slows for sharp turns and frontal danger, and lets skilled
// agents sprint toward food.
func (st *Steering) desiredSpeed(heading *components.Heading, ai *components.AI, cm ContextMap) float32 {
	turn := absf(NormalizeDegrees(st.SlotAngle(cm.Best) - heading.Angle))
	speed := float32(st.cfg.BaseSpeed) * (1 - turn/180)

	front := (ai.FrontDanger + ai.LeftDanger + ai.RightDanger) / 3
	if front < float32(st.cfg.CautionDanger) {
		speed *= float32(st.cfg.CautionFactor)
	}
	if ai.Level >= st.cfg.PursuitLevel && cm.FoodScore > 0 {
		speed = float32(st.cfg.PursuitSpeed)
	}
	return speed
}
