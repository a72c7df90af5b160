package telemetry

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       uint64
	SurvivalTimeSec float32

	Level  int
	Player bool

	// Feeding
	NormalEaten    int
	MassDropsEaten int
	EnergyEaten    float32

	// Combat
	Kills int

	PeakLength int
}

// LifetimeTracker manages per-agent lifetime statistics keyed by entity ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned agent.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick uint64, level int, player bool, length int) {
	lt.stats[entityID] = &LifetimeStats{
		BirthTick:  birthTick,
		Level:      level,
		Player:     player,
		PeakLength: length,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an agent's stats and returns them (for death records).
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordKill credits a kill to the agent whose body was hit.
func (lt *LifetimeTracker) RecordKill(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.Kills++
	}
}

// RecordEat adds one consumed item.
func (lt *LifetimeTracker) RecordEat(entityID uint32, massDrop bool, energy float32) {
	s := lt.stats[entityID]
	if s == nil {
		return
	}
	if massDrop {
		s.MassDropsEaten++
	} else {
		s.NormalEaten++
	}
	s.EnergyEaten += energy
}

// UpdateLength tracks peak body length.
func (lt *LifetimeTracker) UpdateLength(entityID uint32, length int) {
	if s := lt.stats[entityID]; s != nil && length > s.PeakLength {
		s.PeakLength = length
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(entityID uint32, currentTick uint64, dt float32) {
	if s := lt.stats[entityID]; s != nil {
		s.SurvivalTimeSec = float32(currentTick-s.BirthTick) * dt
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Reset forgets every agent.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}
