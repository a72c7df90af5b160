package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Heading holds a head's current and requested direction, in degrees
// normalized to [-180, 180).
type Heading struct {
	Angle  float32
	Target float32
}

// Motion holds a head's forward speed in world units per second.
type Motion struct {
	Speed float32
}
