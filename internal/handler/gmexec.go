package handler

import (
	"fmt"
	"os"
	"strings"

	"github.com/frostmere/server/internal/gm"
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// gmEnv adapts the world to the parser's read-only view.
type gmEnv struct {
	w *world.World
	c *world.Client
	d *Dispatcher
}

func (e *gmEnv) Position() gm.Position {
	char := e.c.Char
	return gm.Position{
		Map:         char.Map,
		X:           char.Info.Position.X,
		Y:           char.Info.Position.Y,
		Z:           char.Info.Position.Z,
		Orientation: char.Info.Orientation,
	}
}

func (e *gmEnv) Target() uint64 { return e.c.Char.Target }

func (e *gmEnv) SelfGUID() uint64 { return e.c.Char.GUID }

func (e *gmEnv) FindEntity(guid uint64) (string, gm.Position, bool) {
	if other := e.w.ClientByCharGUID(guid); other != nil {
		char := other.Char
		return char.Name, gm.Position{
			Map:         char.Map,
			X:           char.Info.Position.X,
			Y:           char.Info.Position.Y,
			Z:           char.Info.Position.Z,
			Orientation: char.Info.Orientation,
		}, true
	}
	if cr := e.w.CreatureByGUID(guid); cr != nil {
		return cr.Name, gm.Position{
			Map:         cr.Map,
			X:           cr.Info.Position.X,
			Y:           cr.Info.Position.Y,
			Z:           cr.Info.Position.Z,
			Orientation: cr.Info.Orientation,
		}, true
	}
	return "", gm.Position{}, false
}

func (e *gmEnv) ItemExists(entry uint32) bool {
	return e.d.deps.Tables.Items.Get(entry) != nil
}

func (e *gmEnv) ItemByName(name string) (uint32, bool) {
	tmpl := e.d.deps.Tables.Items.FindByName(name)
	if tmpl == nil {
		return 0, false
	}
	return tmpl.Entry, true
}

func (e *gmEnv) LocationByName(name string) (gm.Position, bool) {
	loc := e.d.deps.Tables.Locations.Get(name)
	if loc == nil {
		return gm.Position{}, false
	}
	return gm.Position{
		Map:         loc.Map,
		X:           loc.X,
		Y:           loc.Y,
		Z:           loc.Z,
		Orientation: loc.Orientation,
	}, true
}

func (d *Dispatcher) handleGmCommand(w *world.World, c *world.Client, raw string) {
	cmd, err := gm.Parse(raw, &gmEnv{w: w, c: c, d: d})
	if err != nil {
		systemMessage(c, err.Error())
		return
	}

	char := c.Char
	switch m := cmd.(type) {
	case gm.WhereAmI:
		p := char.Info.Position
		systemMessage(c, fmt.Sprintf("You are on map %d at %.1f, %.1f, %.1f facing %.2f",
			char.Map, p.X, p.Y, p.Z, char.Info.Orientation))
	case gm.Teleport:
		d.teleportTo(w, c, m.Pos.Map,
			proto.Vector3{X: m.Pos.X, Y: m.Pos.Y, Z: m.Pos.Z}, m.Pos.Orientation)
	case gm.SetRunSpeed:
		char.RunSpeed = m.Speed
		c.Send(&proto.ForceRunSpeedChange{
			GUID:    char.GUID,
			Counter: c.NextSpeedCounter(),
			Speed:   m.Speed,
		})
		w.BroadcastMap(char.Map, char.GUID, &proto.SplineSetRunSpeed{
			GUID:  char.GUID,
			Speed: m.Speed,
		})
		systemMessage(c, fmt.Sprintf("Run speed set to %.1f", m.Speed))
	case gm.Mark:
		d.markLocation(c, m)
	case gm.RangeToTarget:
		systemMessage(c, fmt.Sprintf("Range to target: %.2f", m.Distance))
	case gm.AddItem:
		d.addItem(w, c, m.Entry)
	case gm.Information:
		d.entityInformation(w, c, m.Target)
	case gm.LineOfSight:
		// Map geometry is not loaded, so sight lines cannot be traced.
		systemMessage(c, "Line of sight data is not available on this server.")
	case gm.MoveNpc:
		systemMessage(c, "No creature movement paths are defined.")
	default:
		d.deps.Log.Error("unexecuted GM command", zap.Any("command", cmd))
	}
}

// markLocation appends the player's position to the mark file in the same
// YAML shape location_list.yaml uses, ready to paste into the data files.
func (d *Dispatcher) markLocation(c *world.Client, m gm.Mark) {
	f, err := os.OpenFile(d.deps.Config.World.MarkFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		d.deps.Log.Error("open mark file", zap.Error(err))
		systemMessage(c, "Unable to record location.")
		return
	}
	defer f.Close()

	for _, name := range m.Names {
		fmt.Fprintf(f, "- name: %q\n  map: %d\n  x: %f\n  y: %f\n  z: %f\n  orientation: %f\n",
			name, m.Pos.Map, m.Pos.X, m.Pos.Y, m.Pos.Z, m.Pos.Orientation)
	}
	systemMessage(c, fmt.Sprintf("Marked current location as %s", strings.Join(m.Names, ", ")))
}

func (d *Dispatcher) addItem(w *world.World, c *world.Client, entry uint32) {
	char := c.Char
	item := &world.Item{
		GUID:  w.Store.NewGUID(),
		Entry: entry,
		Count: 1,
	}
	slot, ok := char.Inventory.Insert(item)
	if !ok {
		systemMessage(c, "Inventory is full.")
		return
	}

	mask := proto.NewUpdateMask()
	mask.SetUint64(proto.FieldPlayerInvStart+uint16(slot)*2, item.GUID)
	c.Send(&proto.UpdateObject{Entries: []proto.UpdateEntry{
		itemCreateEntry(item, char.GUID),
		&proto.Values{GUID: char.GUID, Mask: mask},
	}})
	c.Send(&proto.ItemPushResult{
		Player:  char.GUID,
		Created: true,
		Slot:    slot,
		ItemID:  entry,
		Count:   1,
		Total:   1,
	})
}

func (d *Dispatcher) entityInformation(w *world.World, c *world.Client, target uint64) {
	if other := w.ClientByCharGUID(target); other != nil {
		char := other.Char
		p := char.Info.Position
		systemMessage(c, fmt.Sprintf("Player '%s' (%d), level %d, account %s",
			char.Name, char.GUID, char.Level, char.Account))
		systemMessage(c, fmt.Sprintf("Map %d at %.1f, %.1f, %.1f", char.Map, p.X, p.Y, p.Z))
		return
	}
	if cr := w.CreatureByGUID(target); cr != nil {
		p := cr.Info.Position
		systemMessage(c, fmt.Sprintf("Creature '%s' (%d), entry %d, %d/%d health",
			cr.Name, cr.GUID, cr.Entry, cr.Health, cr.MaxHealth))
		systemMessage(c, fmt.Sprintf("Map %d at %.1f, %.1f, %.1f", cr.Map, p.X, p.Y, p.Z))
		return
	}
	systemMessage(c, fmt.Sprintf("Unable to find entity '%d'", target))
}
