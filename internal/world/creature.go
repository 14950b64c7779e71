package world

import "github.com/frostmere/server/internal/proto"

// Creature is a static world unit. Creatures do not move or act on their
// own; they exist to be seen, queried, and hit.
type Creature struct {
	GUID      uint64
	Entry     uint32
	Name      string
	DisplayID uint32
	Level     uint32
	Health    uint32
	MaxHealth uint32
	Faction   uint32
	Map       uint32
	Info      proto.MovementInfo
}
