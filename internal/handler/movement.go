package handler

import (
	"fmt"

	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// handleMove adopts the reported movement state and relays it, re-tagged
// with the mover's guid, to everyone else on the map. Movement arriving
// mid-teleport describes the pre-teleport position and is dropped.
func (d *Dispatcher) handleMove(w *world.World, c *world.Client, m *proto.Move) {
	char := c.Char
	if char.Teleporting {
		return
	}
	char.Info = m.Info
	w.BroadcastMap(char.Map, char.GUID, &proto.MoveRelay{
		Op:   m.Op,
		GUID: char.GUID,
		Info: m.Info,
	})
}

// teleportTo moves a character. Same-map teleports are a single snap; cross
// map ones run the loading-screen exchange and finish in handleWorldportAck.
func (d *Dispatcher) teleportTo(w *world.World, c *world.Client, mapID uint32, pos proto.Vector3, orientation float32) {
	char := c.Char
	if mapID == char.Map {
		char.Info.Position = pos
		char.Info.Orientation = orientation
		// Only the traveler gets the ack; observers learn the new position
		// from its subsequent movement packets.
		c.Send(&proto.MoveTeleportAck{
			GUID:    char.GUID,
			Counter: c.NextSpeedCounter(),
			Info:    char.Info,
		})
		return
	}

	char.Teleporting = true
	w.BroadcastMap(char.Map, char.GUID, &proto.DestroyObject{GUID: char.GUID})
	c.Send(&proto.TransferPending{Map: mapID})

	char.Map = mapID
	char.Info.Position = pos
	char.Info.Orientation = orientation
	c.Send(&proto.NewWorld{
		Map:         mapID,
		Position:    pos,
		Orientation: orientation,
	})
	d.deps.Log.Info("cross-map teleport",
		zap.String("name", char.Name),
		zap.Uint32("map", mapID))
}

// handleWorldportAck completes a cross-map teleport once the client is done
// loading by replaying the full login stream on the new map.
func (d *Dispatcher) handleWorldportAck(w *world.World, c *world.Client) {
	char := c.Char
	if !char.Teleporting {
		return
	}
	char.Teleporting = false
	d.sendLoginStream(w, c)
}

// handleWorldTeleport is the client-side debug teleport.
func (d *Dispatcher) handleWorldTeleport(w *world.World, c *world.Client, m *proto.WorldTeleport) {
	d.teleportTo(w, c, m.Map, m.Position, m.Orientation)
}

// handleTeleportToUnit jumps to the named player, wherever they are.
func (d *Dispatcher) handleTeleportToUnit(w *world.World, c *world.Client, m *proto.TeleportToUnit) {
	target := w.ClientByCharName(m.Name)
	if target == nil {
		systemMessage(c, fmt.Sprintf("No player named '%s' is currently playing.", m.Name))
		return
	}
	tc := target.Char
	d.teleportTo(w, c, tc.Map, tc.Info.Position, tc.Info.Orientation)
}

// handleAreaTrigger teleports through configured trigger zones. Triggers
// with no destination are the common case (quest and exploration triggers)
// and are ignored.
func (d *Dispatcher) handleAreaTrigger(w *world.World, c *world.Client, m *proto.AreaTrigger) {
	dest := d.deps.Tables.AreaTriggers.Get(m.TriggerID)
	if dest == nil {
		return
	}
	d.teleportTo(w, c, dest.Map, proto.Vector3{X: dest.X, Y: dest.Y, Z: dest.Z}, dest.Orientation)
}

func (d *Dispatcher) handleLogoutRequest(c *world.Client) {
	c.Send(&proto.LogoutResponse{Result: proto.LogoutOK})
	c.LogoutPending = true
}
