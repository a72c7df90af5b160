package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
)

// Store bundles the ECS world with the mappers and filters the stages share.
// Heads carry Position, Heading, Motion, Collider and SnakeHead, plus AI or
// Player. Body segments carry Position, Collider and SnakeBody.
type Store struct {
	World *ecs.World

	headMapper *ecs.Map5[
		components.Position,
		components.Heading,
		components.Motion,
		components.Collider,
		components.SnakeHead,
	]
	bodyMapper *ecs.Map3[
		components.Position,
		components.Collider,
		components.SnakeBody,
	]

	Heads *ecs.Filter5[
		components.Position,
		components.Heading,
		components.Motion,
		components.Collider,
		components.SnakeHead,
	]
	AIs *ecs.Filter5[
		components.Position,
		components.Heading,
		components.Motion,
		components.SnakeHead,
		components.AI,
	]
	Players *ecs.Filter4[
		components.Position,
		components.Heading,
		components.SnakeHead,
		components.Player,
	]

	// Individual component mappers for lookups
	Pos      *ecs.Map[components.Position]
	Heading  *ecs.Map[components.Heading]
	Motion   *ecs.Map[components.Motion]
	Collider *ecs.Map[components.Collider]
	Head     *ecs.Map[components.SnakeHead]
	Body     *ecs.Map[components.SnakeBody]
	AI       *ecs.Map[components.AI]
	Player   *ecs.Map[components.Player]
}

// NewStore creates an empty world and its mappers.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		World: world,
		headMapper: ecs.NewMap5[
			components.Position,
			components.Heading,
			components.Motion,
			components.Collider,
			components.SnakeHead,
		](world),
		bodyMapper: ecs.NewMap3[
			components.Position,
			components.Collider,
			components.SnakeBody,
		](world),
		Heads: ecs.NewFilter5[
			components.Position,
			components.Heading,
			components.Motion,
			components.Collider,
			components.SnakeHead,
		](world),
		AIs: ecs.NewFilter5[
			components.Position,
			components.Heading,
			components.Motion,
			components.SnakeHead,
			components.AI,
		](world),
		Players: ecs.NewFilter4[
			components.Position,
			components.Heading,
			components.SnakeHead,
			components.Player,
		](world),
		Pos:      ecs.NewMap[components.Position](world),
		Heading:  ecs.NewMap[components.Heading](world),
		Motion:   ecs.NewMap[components.Motion](world),
		Collider: ecs.NewMap[components.Collider](world),
		Head:     ecs.NewMap[components.SnakeHead](world),
		Body:     ecs.NewMap[components.SnakeBody](world),
		AI:       ecs.NewMap[components.AI](world),
		Player:   ecs.NewMap[components.Player](world),
	}
}

// NewHead creates a head entity. Role components are added by the caller.
func (s *Store) NewHead(pos components.Position, heading components.Heading, motion components.Motion, head components.SnakeHead) ecs.Entity {
	col := components.Collider{Radius: head.Radius}
	return s.headMapper.NewEntity(&pos, &heading, &motion, &col, &head)
}

// NewSegment creates a body segment owned by the given head.
func (s *Store) NewSegment(pos components.Position, radius float32, owner ecs.Entity, index int) ecs.Entity {
	col := components.Collider{Radius: radius}
	body := components.SnakeBody{Owner: owner, Index: index}
	return s.bodyMapper.NewEntity(&pos, &col, &body)
}

// Alive reports whether e refers to a live entity. Stale handles from a
// previous generation report false.
func (s *Store) Alive(e ecs.Entity) bool {
	return !e.IsZero() && s.World.Alive(e)
}

// IsHead reports whether e is a live head.
func (s *Store) IsHead(e ecs.Entity) bool {
	return s.Alive(e) && s.Head.Has(e)
}

// Remove destroys an entity.
func (s *Store) Remove(e ecs.Entity) {
	if s.Alive(e) {
		s.World.RemoveEntity(e)
	}
}

// Reset removes every entity.
func (s *Store) Reset() {
	var all []ecs.Entity
	query := s.Heads.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	bodies := ecs.NewFilter1[components.SnakeBody](s.World).Query()
	for bodies.Next() {
		all = append(all, bodies.Entity())
	}
	for _, e := range all {
		s.World.RemoveEntity(e)
	}
}

// CountHeads returns the number of live head entities, split by role.
func (s *Store) CountHeads() (ai, players int) {
	aq := s.AIs.Query()
	for aq.Next() {
		ai++
	}
	pq := s.Players.Query()
	for pq.Next() {
		players++
	}
	return ai, players
}
