package components

// AI marks a computer-controlled head and carries its steering memory.
type AI struct {
	Level    int
	PrevSlot int // Slot chosen on the last heavy tick, -1 before the first

	// DesiredSpeed is set on heavy ticks; speed eases toward it every tick.
	DesiredSpeed float32

	// Diagnostics from the last heavy tick.
	FrontDanger float32
	LeftDanger  float32
	RightDanger float32
	FoodScore   float32
}

// NewAI returns steering state for an agent of the given skill level
// cruising at speed.
func NewAI(level int, speed float32) AI {
	return AI{Level: level, PrevSlot: -1, DesiredSpeed: speed}
}

// ControlMode selects how pointer input steers the player.
type ControlMode uint8

const (
	ControlDirect     ControlMode = iota // Heading tracks the pointer continuously
	ControlHoldToTurn                    // Heading follows the pointer only while held
)

// Player marks the player-controlled head and holds its latest input.
type Player struct {
	Mode    ControlMode
	AimX    float32 // Pointer position in world coordinates
	AimY    float32
	Holding bool // Pointer button held
	Boost   bool // Boost key held
}
