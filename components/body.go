package components

import "github.com/mlange-42/ark/ecs"

// Collider is a circle used for consumption and overlap tests.
type Collider struct {
	Radius float32
}

// SnakeBody marks a trailing segment. Owner is a weak reference: the head
// may have been removed, so callers must check world.Alive before use.
type SnakeBody struct {
	Owner ecs.Entity
	Index int // Position along the chain, increasing toward the tail
}
