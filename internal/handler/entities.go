package handler

import (
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
)

// playerCreateEntry builds the create block replicating char. self controls
// the self-flag and whether private fields (inventory guids) are included;
// other players only ever see the visible equipment.
func playerCreateEntry(char *world.Character, self bool) *proto.CreatePlayer {
	mask := proto.NewUpdateMask()
	mask.SetUint64(proto.FieldGUID, char.GUID)
	mask.SetUint32(proto.FieldType, proto.TypeMaskObject|proto.TypeMaskUnit|proto.TypeMaskPlayer)
	mask.SetFloat32(proto.FieldScaleX, 1.0)
	mask.SetUint32(proto.FieldHealth, char.Health)
	mask.SetUint32(proto.FieldMaxHealth, char.MaxHealth)
	mask.SetUint32(proto.FieldLevel, uint32(char.Level))
	mask.SetUint32(proto.FieldFaction, char.Faction)
	mask.SetUint32(proto.FieldBytes0,
		uint32(char.Race)|uint32(char.Class)<<8|uint32(char.Gender)<<16|uint32(1)<<24)
	mask.SetUint32(proto.FieldDisplayID, char.DisplayID())
	mask.SetUint32(proto.FieldNativeDisplayID, char.DisplayID())
	mask.SetUint32(proto.FieldPlayerBytes,
		uint32(char.Skin)|uint32(char.Face)<<8|uint32(char.HairStyle)<<16|uint32(char.HairColor)<<24)
	mask.SetUint32(proto.FieldPlayerBytes2, uint32(char.FacialHair))

	char.Inventory.Equipment(func(slot uint8, item *world.Item) {
		mask.SetUint32(proto.FieldPlayerVisibleItemStart+uint16(slot)*12, item.Entry)
	})
	if self {
		char.Inventory.All(func(slot uint8, item *world.Item) {
			mask.SetUint64(proto.FieldPlayerInvStart+uint16(slot)*2, item.GUID)
		})
	}

	return &proto.CreatePlayer{
		GUID:     char.GUID,
		Self:     self,
		Info:     char.Info,
		RunSpeed: char.RunSpeed,
		Mask:     mask,
	}
}

func creatureCreateEntry(cr *world.Creature) *proto.CreateCreature {
	mask := proto.NewUpdateMask()
	mask.SetUint64(proto.FieldGUID, cr.GUID)
	mask.SetUint32(proto.FieldType, proto.TypeMaskObject|proto.TypeMaskUnit)
	mask.SetUint32(proto.FieldEntry, cr.Entry)
	mask.SetFloat32(proto.FieldScaleX, 1.0)
	mask.SetUint32(proto.FieldHealth, cr.Health)
	mask.SetUint32(proto.FieldMaxHealth, cr.MaxHealth)
	mask.SetUint32(proto.FieldLevel, cr.Level)
	mask.SetUint32(proto.FieldFaction, cr.Faction)
	mask.SetUint32(proto.FieldDisplayID, cr.DisplayID)
	mask.SetUint32(proto.FieldNativeDisplayID, cr.DisplayID)

	return &proto.CreateCreature{
		GUID: cr.GUID,
		Info: cr.Info,
		Mask: mask,
	}
}

func itemCreateEntry(item *world.Item, owner uint64) *proto.CreateItem {
	mask := proto.NewUpdateMask()
	mask.SetUint64(proto.FieldGUID, item.GUID)
	mask.SetUint32(proto.FieldType, proto.TypeMaskObject|proto.TypeMaskItem)
	mask.SetUint32(proto.FieldEntry, item.Entry)
	mask.SetFloat32(proto.FieldScaleX, 1.0)
	mask.SetUint64(proto.FieldItemOwner, owner)
	mask.SetUint64(proto.FieldItemContained, owner)
	mask.SetUint32(proto.FieldItemStackCount, item.Count)

	return &proto.CreateItem{GUID: item.GUID, Mask: mask}
}

// spawnSurroundings sends c everything already present on its map: other
// players and creatures.
func spawnSurroundings(w *world.World, c *world.Client) {
	char := c.Char
	var entries []proto.UpdateEntry
	w.EachInWorld(func(other *world.Client) {
		if other.Char.GUID == char.GUID || other.Char.Map != char.Map {
			return
		}
		entries = append(entries, playerCreateEntry(other.Char, false))
	})
	w.EachCreatureOnMap(char.Map, func(cr *world.Creature) {
		entries = append(entries, creatureCreateEntry(cr))
	})
	if len(entries) > 0 {
		c.Send(&proto.UpdateObject{Entries: entries})
	}
}

// announceSpawn shows c's character to everyone else on its map.
func announceSpawn(w *world.World, c *world.Client) {
	char := c.Char
	w.BroadcastMap(char.Map, char.GUID, &proto.UpdateObject{
		Entries: []proto.UpdateEntry{playerCreateEntry(char, false)},
	})
}

// sendSelfSpawn replicates c's own character and items to itself.
func sendSelfSpawn(c *world.Client) {
	char := c.Char
	entries := make([]proto.UpdateEntry, 0, 1)
	char.Inventory.All(func(slot uint8, item *world.Item) {
		entries = append(entries, itemCreateEntry(item, char.GUID))
	})
	entries = append(entries, playerCreateEntry(char, true))
	c.Send(&proto.UpdateObject{Entries: entries})
}
