// Package world holds the authoritative game state: characters, creatures,
// connected clients, and the fixed-timestep tick loop that drives them.
package world

import (
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/proto"
)

// Character is the persistent record for one player character. The store
// hands out deep copies; the live copy owned by a Client is written back
// through the store when it changes.
type Character struct {
	GUID    uint64
	Account string
	Name    string

	Race       byte
	Class      byte
	Gender     byte
	Skin       byte
	Face       byte
	HairStyle  byte
	HairColor  byte
	FacialHair byte

	Level     byte
	Health    uint32
	MaxHealth uint32
	Faction   uint32

	Map  uint32
	Zone uint32
	Info proto.MovementInfo

	RunSpeed float32

	Inventory Inventory
	Spells    []uint16

	// Teleporting is set between sending a teleport and the client's ack.
	// Movement from a client mid-teleport is stale and gets dropped.
	Teleporting bool

	// Target is the guid selected via SET_SELECTION, zero for none.
	Target uint64

	// Attacking is set while auto-attack swings run against Target.
	Attacking bool
}

// Clone returns a deep copy, so store snapshots never alias live state.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Spells = append([]uint16(nil), c.Spells...)
	cp.Inventory = c.Inventory.Clone()
	return &cp
}

// DisplayID returns the character's model id.
func (c *Character) DisplayID() uint32 {
	return data.PlayerDisplayID(c.Race, c.Gender)
}

// Position returns the character's current position.
func (c *Character) Position() proto.Vector3 {
	return c.Info.Position
}
