package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick uint64
	windowStartSec  float64
	simTimeSec      float64

	// Event counters for current window
	aiSpawns       int
	playerSpawns   int
	boundaryDeaths int
	bodyDeaths     int
	kills          int
	normalEaten    int
	massDropsEaten int
	segmentsGrown  int
	massDropped    int
}

// Population is a snapshot of the arena taken when a window is flushed.
type Population struct {
	AI        int
	Players   int
	Lengths   []float64 // Body length of every live agent
	LiveFood  int
	FreeSlots int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Advance adds a frame's delta time to the simulation clock.
func (c *Collector) Advance(dt float32) {
	c.simTimeSec += float64(dt)
}

// SimTime returns the simulation time in seconds.
func (c *Collector) SimTime() float64 {
	return c.simTimeSec
}

// RecordSpawn records an agent entering the arena.
func (c *Collector) RecordSpawn(player bool) {
	if player {
		c.playerSpawns++
	} else {
		c.aiSpawns++
	}
}

// RecordDeath records an agent death. killed is true when another agent's
// body was hit.
func (c *Collector) RecordDeath(boundary, killed bool) {
	if boundary {
		c.boundaryDeaths++
	} else {
		c.bodyDeaths++
	}
	if killed {
		c.kills++
	}
}

// RecordFeeding adds one tick of consumption counts.
func (c *Collector) RecordFeeding(normal, massDrops, grown int) {
	c.normalEaten += normal
	c.massDropsEaten += massDrops
	c.segmentsGrown += grown
}

// RecordMassDrop records segments converted into food.
func (c *Collector) RecordMassDrop(n int) {
	c.massDropped += n
}

// ShouldFlush returns true if enough simulation time has passed to flush the window.
func (c *Collector) ShouldFlush() bool {
	return c.simTimeSec-c.windowStartSec >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, pop Population) WindowStats {
	mean, std, p10, p50, p90, maxLen := ComputeLengthStats(pop.Lengths)

	var foodRate float64
	if elapsed := c.simTimeSec - c.windowStartSec; elapsed > 0 {
		foodRate = float64(c.normalEaten+c.massDropsEaten) / elapsed
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTimeSec,

		AICount:     pop.AI,
		PlayerCount: pop.Players,
		LiveFood:    pop.LiveFood,
		FreeSlots:   pop.FreeSlots,

		AISpawns:       c.aiSpawns,
		PlayerSpawns:   c.playerSpawns,
		BoundaryDeaths: c.boundaryDeaths,
		BodyDeaths:     c.bodyDeaths,
		Kills:          c.kills,

		NormalEaten:    c.normalEaten,
		MassDropsEaten: c.massDropsEaten,
		SegmentsGrown:  c.segmentsGrown,
		MassDropped:    c.massDropped,
		EatRate:        foodRate,

		LengthMean: mean,
		LengthStd:  std,
		LengthP10:  p10,
		LengthP50:  p50,
		LengthP90:  p90,
		LengthMax:  maxLen,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartSec = c.simTimeSec
	c.aiSpawns = 0
	c.playerSpawns = 0
	c.boundaryDeaths = 0
	c.bodyDeaths = 0
	c.kills = 0
	c.normalEaten = 0
	c.massDropsEaten = 0
	c.segmentsGrown = 0
	c.massDropped = 0

	return stats
}

// WindowDurationSec returns the window length in simulation seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
