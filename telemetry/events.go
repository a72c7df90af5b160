package telemetry

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	Tick        uint64  `csv:"tick"`
	SimTimeSec  float64 `csv:"sim_time"`
	EntityID    uint32  `csv:"entity"`
	Player      bool    `csv:"player"`
	Level       int     `csv:"level"`
	Cause       string  `csv:"cause"`
	KillerID    uint32  `csv:"killer"` // 0 when no agent was responsible
	Length      int     `csv:"length"`
	PeakLength  int     `csv:"peak_length"`
	Radius      float32 `csv:"radius"`
	TotalEnergy float32 `csv:"total_energy"`
	Survival    float32 `csv:"survival_sec"`
	Kills       int     `csv:"kills"`
	Eaten       int     `csv:"eaten"`
}

// NewDeathRecord combines a death with the agent's lifetime stats. life may
// be nil for agents that were never registered.
func NewDeathRecord(tick uint64, simTime float64, entityID uint32, cause string, killerID uint32, length int, radius, totalEnergy float32, life *LifetimeStats) DeathRecord {
	r := DeathRecord{
		Tick:        tick,
		SimTimeSec:  simTime,
		EntityID:    entityID,
		Cause:       cause,
		KillerID:    killerID,
		Length:      length,
		PeakLength:  length,
		Radius:      radius,
		TotalEnergy: totalEnergy,
	}
	if life != nil {
		r.Player = life.Player
		r.Level = life.Level
		r.PeakLength = max(length, life.PeakLength)
		r.Survival = life.SurvivalTimeSec
		r.Kills = life.Kills
		r.Eaten = life.NormalEaten + life.MassDropsEaten
	}
	return r
}
