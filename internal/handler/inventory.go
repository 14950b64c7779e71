package handler

import (
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// handleSwapInvItem exchanges two inventory slots and replicates the new
// slot contents: the owner sees both slot guids change, everyone else sees
// visible equipment change when a worn slot was involved.
func (d *Dispatcher) handleSwapInvItem(w *world.World, c *world.Client, m *proto.SwapInvItem) {
	char := c.Char
	if err := char.Inventory.Swap(m.SrcSlot, m.DestSlot); err != nil {
		d.deps.Log.Debug("rejected inventory swap",
			zap.Uint8("src", m.SrcSlot),
			zap.Uint8("dst", m.DestSlot),
			zap.String("character", char.Name),
			zap.Error(err))
		return
	}

	selfMask := proto.NewUpdateMask()
	visibleMask := proto.NewUpdateMask()
	for _, slot := range []uint8{m.SrcSlot, m.DestSlot} {
		var guid uint64
		var entry uint32
		if item := char.Inventory.Get(slot); item != nil {
			guid = item.GUID
			entry = item.Entry
		}
		selfMask.SetUint64(proto.FieldPlayerInvStart+uint16(slot)*2, guid)
		if slot < world.EquipmentEnd {
			visibleMask.SetUint32(proto.FieldPlayerVisibleItemStart+uint16(slot)*12, entry)
		}
	}

	c.Send(&proto.UpdateObject{Entries: []proto.UpdateEntry{
		&proto.Values{GUID: char.GUID, Mask: selfMask},
	}})
	if visibleMask.Len() > 0 {
		w.BroadcastMap(char.Map, char.GUID, &proto.UpdateObject{Entries: []proto.UpdateEntry{
			&proto.Values{GUID: char.GUID, Mask: visibleMask},
		}})
	}
}
