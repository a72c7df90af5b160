package game

import (
	"math"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/systems"
)

// SetPlayerInput records the pointer position in world coordinates, whether
// the pointer button is held and whether boost is requested. It is applied
// on the next Step.
func (g *Game) SetPlayerInput(aimX, aimY float32, holding, boost bool) {
	p := g.playerControl()
	if p == nil {
		return
	}
	p.AimX, p.AimY = aimX, aimY
	p.Holding = holding
	p.Boost = boost
}

// ToggleControlMode switches the player between direct and hold-to-turn
// steering.
func (g *Game) ToggleControlMode() components.ControlMode {
	p := g.playerControl()
	if p == nil {
		return components.ControlDirect
	}
	if p.Mode == components.ControlDirect {
		p.Mode = components.ControlHoldToTurn
	} else {
		p.Mode = components.ControlDirect
	}
	return p.Mode
}

func (g *Game) playerControl() *components.Player {
	if g.player.IsZero() || !g.store.Alive(g.player) {
		return nil
	}
	return g.store.Player.Get(g.player)
}

// updatePlayer applies the latest input to the player's head: speed eases
// toward cruise or boost speed, and the target heading points at the aim
// unless the aim is inside the deadzone.
func (g *Game) updatePlayer(dt float32) {
	query := g.store.Players.Query()
	for query.Next() {
		pos, heading, head, p := query.Get()
		if head.Dead {
			continue
		}
		motion := g.store.Motion.Get(query.Entity())

		target := float32(g.cfg.Snake.Speed)
		if p.Boost && head.Energy > 0 {
			target = float32(g.cfg.Snake.BoostSpeed)
		}
		motion.Speed += (target - motion.Speed) * float32(g.cfg.Snake.SpeedEase) * dt

		if p.Mode == components.ControlHoldToTurn && !p.Holding {
			continue
		}
		dx, dy := p.AimX-pos.X, p.AimY-pos.Y
		dead := float32(g.cfg.Snake.SteerDeadzone)
		if dx*dx+dy*dy <= dead*dead {
			continue
		}
		heading.Target = systems.NormalizeDegrees(float32(math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi))
	}
}
