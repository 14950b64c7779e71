package handler

import (
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
)

// handleAttackSwing starts auto-attacking the given guid, creature or
// player alike; the combat update resolves whether it can actually be hit.
// The first swing lands on the next update; the interval timer takes over
// from there, and a repeated swing request never resets a running cooldown.
func (d *Dispatcher) handleAttackSwing(w *world.World, c *world.Client, m *proto.AttackSwing) {
	char := c.Char
	char.Target = m.GUID
	char.Attacking = true
	if c.AttackTimer < 0 {
		c.AttackTimer = 0
	}
	w.BroadcastMap(char.Map, 0, &proto.AttackStart{
		Attacker: char.GUID,
		Victim:   m.GUID,
	})
}

func (d *Dispatcher) handleAttackStop(w *world.World, c *world.Client) {
	char := c.Char
	if !char.Attacking {
		return
	}
	char.Attacking = false
	w.BroadcastMap(char.Map, 0, &proto.AttackStopped{
		Attacker: char.GUID,
		Victim:   char.Target,
	})
}
