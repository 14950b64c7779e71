package handler

import (
	"strings"
	"time"
	"unicode"

	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

const maxCharactersPerAccount = 10

// visibleEnumSlots is what the character screen renders: the 19 equipment
// slots plus the first bag.
const visibleEnumSlots = 20

func (d *Dispatcher) handleCharEnum(w *world.World, c *world.Client) {
	chars := w.Store.ListForAccount(c.Account())
	entries := make([]proto.CharEnumEntry, 0, len(chars))
	for _, char := range chars {
		entry := proto.CharEnumEntry{
			GUID:       char.GUID,
			Name:       char.Name,
			Race:       char.Race,
			Class:      char.Class,
			Gender:     char.Gender,
			Skin:       char.Skin,
			Face:       char.Face,
			HairStyle:  char.HairStyle,
			HairColor:  char.HairColor,
			FacialHair: char.FacialHair,
			Level:      char.Level,
			Area:       char.Zone,
			Map:        char.Map,
			Position:   char.Info.Position,
			Equipment:  make([]proto.CharEnumItem, visibleEnumSlots),
		}
		for slot := uint8(0); slot < visibleEnumSlots; slot++ {
			item := char.Inventory.Get(slot)
			if item == nil {
				continue
			}
			tmpl := d.deps.Tables.Items.Get(item.Entry)
			if tmpl == nil {
				continue
			}
			entry.Equipment[slot] = proto.CharEnumItem{
				DisplayID: tmpl.DisplayID,
				InvType:   byte(tmpl.InvType),
			}
		}
		entries = append(entries, entry)
	}
	c.Send(&proto.CharEnumResult{Characters: entries})
}

func (d *Dispatcher) handleCharCreate(w *world.World, c *world.Client, m *proto.CharCreate) {
	name := normalizeName(m.Name)
	if name == "" {
		c.Send(&proto.CharCreateResult{Code: proto.CharCreateError})
		return
	}
	if _, taken := w.Store.FindByName(name); taken {
		c.Send(&proto.CharCreateResult{Code: proto.CharCreateNameInUse})
		return
	}
	if len(w.Store.ListForAccount(c.Account())) >= maxCharactersPerAccount {
		c.Send(&proto.CharCreateResult{Code: proto.CharCreateServerLimit})
		return
	}
	start := d.deps.Tables.CharStart.Get(m.Race, m.Class)
	if start == nil {
		d.deps.Log.Warn("character create with unknown race/class",
			zap.Uint8("race", m.Race),
			zap.Uint8("class", m.Class),
			zap.String("account", c.Account()))
		c.Send(&proto.CharCreateResult{Code: proto.CharCreateError})
		return
	}

	char := &world.Character{
		GUID:       w.Store.NewGUID(),
		Account:    c.Account(),
		Name:       name,
		Race:       m.Race,
		Class:      m.Class,
		Gender:     m.Gender,
		Skin:       m.Skin,
		Face:       m.Face,
		HairStyle:  m.HairStyle,
		HairColor:  m.HairColor,
		FacialHair: m.FacialHair,
		Level:      1,
		Health:     100,
		MaxHealth:  100,
		Faction:    start.Faction,
		Map:        start.Map,
		Zone:       start.Zone,
		RunSpeed:   7.0,
		Spells:     append([]uint16(nil), start.Spells...),
	}
	char.Info.Position = proto.Vector3{X: start.X, Y: start.Y, Z: start.Z}
	char.Info.Orientation = start.Orientation
	for _, si := range start.Items {
		count := si.Count
		if count == 0 {
			count = 1
		}
		char.Inventory.Set(si.Slot, &world.Item{
			GUID:  w.Store.NewGUID(),
			Entry: si.Entry,
			Count: count,
		})
	}

	if err := w.Store.Create(char); err != nil {
		c.Send(&proto.CharCreateResult{Code: proto.CharCreateNameInUse})
		return
	}
	d.deps.Log.Info("character created",
		zap.String("name", char.Name),
		zap.Uint64("guid", char.GUID),
		zap.String("account", c.Account()))
	c.Send(&proto.CharCreateResult{Code: proto.CharCreateSuccess})
}

func (d *Dispatcher) handleCharDelete(w *world.World, c *world.Client, m *proto.CharDelete) {
	char, ok := w.Store.Get(m.GUID)
	if !ok || !strings.EqualFold(char.Account, c.Account()) {
		c.Send(&proto.CharDeleteResult{Code: proto.CharDeleteFailed})
		return
	}
	w.Store.Delete(m.GUID)
	d.deps.Log.Info("character deleted",
		zap.String("name", char.Name),
		zap.Uint64("guid", m.GUID),
		zap.String("account", c.Account()))
	c.Send(&proto.CharDeleteResult{Code: proto.CharDeleteSuccess})
}

// handlePlayerLogin records the requested guid and flags the client as
// waiting. The world tick's promotion stage performs the actual promotion;
// the dispatcher never does it mid-drain.
func (d *Dispatcher) handlePlayerLogin(w *world.World, c *world.Client, m *proto.PlayerLogin) {
	c.PendingLogin = m.GUID
	c.Status = world.StatusWaitingToLogIn
}

// CompleteLogin resolves a pending login and promotes the client into the
// world. A guid that does not resolve, or belongs to another account, drops
// the session: the client is either broken or probing.
func (d *Dispatcher) CompleteLogin(w *world.World, c *world.Client) {
	guid := c.PendingLogin
	c.PendingLogin = 0

	char, ok := w.Store.Get(guid)
	if !ok {
		d.deps.Log.Warn("login for unknown character guid",
			zap.Uint64("guid", guid),
			zap.String("account", c.Account()))
		c.Sess.Close()
		return
	}
	if !strings.EqualFold(char.Account, c.Account()) {
		d.deps.Log.Warn("login for character on another account",
			zap.Uint64("guid", guid),
			zap.String("account", c.Account()))
		c.Sess.Close()
		return
	}

	c.Char = char
	c.Status = world.StatusInWorld
	d.sendLoginStream(w, c)

	d.deps.Log.Info("character entered world",
		zap.String("name", char.Name),
		zap.Uint64("guid", char.GUID),
		zap.Uint32("map", char.Map))
}

// sendLoginStream sends the full world-entry state: verify-world, account
// data, clock, tutorials, spells, the self spawn, time sync, and the mutual
// spawn exchange with everything already on the map. Worldport acks replay
// the same stream.
func (d *Dispatcher) sendLoginStream(w *world.World, c *world.Client) {
	char := c.Char
	c.Send(&proto.LoginVerifyWorld{
		Map:         char.Map,
		Position:    char.Info.Position,
		Orientation: char.Info.Orientation,
	})
	c.Send(&proto.AccountDataTimes{})
	c.Send(&proto.LoginSetTimeSpeed{
		GameTime: packedGameTime(time.Now()),
		Rate:     1.0 / 60.0,
	})
	c.Send(&proto.TutorialFlags{})
	c.Send(&proto.InitialSpells{Spells: char.Spells})
	sendSelfSpawn(c)
	c.Send(&proto.TimeSyncReq{Counter: c.NextTimeSync()})

	spawnSurroundings(w, c)
	announceSpawn(w, c)
}

// normalizeName validates and canonicalizes a character name: 2-12 letters,
// first upper, rest lower. Empty return means invalid.
func normalizeName(raw string) string {
	if len(raw) < 2 || len(raw) > 12 {
		return ""
	}
	for _, r := range raw {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
}

// packedGameTime encodes wall time in the bit layout SMSG_LOGIN_SETTIMESPEED
// carries: minute, hour, weekday, day, month, year-since-2000.
func packedGameTime(t time.Time) uint32 {
	return uint32(t.Minute()) |
		uint32(t.Hour())<<6 |
		uint32(t.Weekday())<<11 |
		uint32(t.Day()-1)<<14 |
		uint32(t.Month()-1)<<20 |
		uint32(t.Year()-2000)<<24
}
