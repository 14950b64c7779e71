package world

import (
	"math"
	"strings"
	"time"

	"github.com/frostmere/server/internal/config"
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/net"
	"github.com/frostmere/server/internal/proto"
	"go.uber.org/zap"
)

// Auto-attack tuning. Every swing lands for the same flat damage; there is
// no weapon or stat math behind it yet.
const (
	attackIntervalMs = 2000
	attackDamage     = 1332
	meleeRange       = 5.0
)

// creatureGUIDHigh keeps creature guids disjoint from character guids.
const creatureGUIDHigh = uint64(0xF130) << 48

// CharacterStore is the persistence boundary the tick loop talks to. Every
// Get returns a snapshot; writes go back through Replace.
type CharacterStore interface {
	NewGUID() uint64
	Get(guid uint64) (*Character, bool)
	Replace(c *Character)
	Create(c *Character) error
	Delete(guid uint64)
	ListForAccount(account string) []*Character
	FindByName(name string) (*Character, bool)
}

// Dispatcher routes decoded client messages to their handlers. Split by
// lifecycle stage: a message legal at the character screen is not legal in
// the world and vice versa. CompleteLogin runs only from the tick's
// promotion stage, never mid-drain.
type Dispatcher interface {
	HandleCharacterScreen(w *World, c *Client, msg proto.ClientMessage)
	HandleWorld(w *World, c *Client, msg proto.ClientMessage)
	CompleteLogin(w *World, c *Client)
}

// World owns all live game state. Everything here is touched only from the
// tick goroutine.
type World struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Store  CharacterStore
	Tables *data.Tables

	dispatcher Dispatcher
	joins      <-chan *net.Session

	clients   []*Client
	creatures []*Creature

	tickCount uint64
}

func New(cfg *config.Config, log *zap.Logger, store CharacterStore, tables *data.Tables, joins <-chan *net.Session) *World {
	return &World{
		Cfg:    cfg,
		Log:    log,
		Store:  store,
		Tables: tables,
		joins:  joins,
	}
}

// SetDispatcher wires the message dispatcher. Must be called before the
// first tick.
func (w *World) SetDispatcher(d Dispatcher) {
	w.dispatcher = d
}

// TickCount returns the number of completed ticks since boot.
func (w *World) TickCount() uint64 {
	return w.tickCount
}

// SpawnCreatures instantiates every configured creature spawn.
func (w *World) SpawnCreatures() {
	var next uint64
	for _, spawn := range w.Tables.Spawns {
		tmpl := w.Tables.Creatures.Get(spawn.Entry)
		if tmpl == nil {
			w.Log.Warn("spawn references unknown creature",
				zap.Uint32("entry", spawn.Entry))
			continue
		}
		next++
		w.creatures = append(w.creatures, &Creature{
			GUID:      creatureGUIDHigh | next,
			Entry:     tmpl.Entry,
			Name:      tmpl.Name,
			DisplayID: tmpl.DisplayID,
			Level:     tmpl.Level,
			Health:    tmpl.MaxHealth,
			MaxHealth: tmpl.MaxHealth,
			Faction:   tmpl.Faction,
			Map:       spawn.Map,
			Info: proto.MovementInfo{
				Position:    proto.Vector3{X: spawn.X, Y: spawn.Y, Z: spawn.Z},
				Orientation: spawn.Orientation,
			},
		})
	}
	w.Log.Info("creatures spawned", zap.Int("count", len(w.creatures)))
}

// AdoptJoins moves newly authenticated sessions into the client list. They
// start at the character screen and can be promoted later this same tick.
func (w *World) AdoptJoins() {
	w.tickCount++
	for {
		select {
		case sess := <-w.joins:
			w.clients = append(w.clients, &Client{
				Sess:   sess,
				Status: StatusCharacterScreen,
			})
			w.Log.Info("client joined character screen",
				zap.Uint64("session", sess.ID),
				zap.String("account", sess.Account))
		default:
			return
		}
	}
}

// DispatchCharacterScreen drains messages for clients at the character
// screen. An accepted login request flips the client to waiting-to-log-in
// and stops the drain; PromotePending finishes the job this same tick and
// the in-world stage picks up the remaining messages.
func (w *World) DispatchCharacterScreen() {
	for _, c := range w.clients {
		if c.Status != StatusCharacterScreen || c.Sess.IsClosed() {
			continue
		}
		for {
			msg, ok := c.Sess.Poll()
			if !ok {
				break
			}
			w.dispatcher.HandleCharacterScreen(w, c, msg)
			if c.Status != StatusCharacterScreen {
				break
			}
		}
	}
}

// PromotePending moves clients flagged waiting-to-log-in into the world.
// This is the only place promotion happens, so every later stage of the same
// tick observes the promoted client.
func (w *World) PromotePending() {
	for _, c := range w.clients {
		if c.Status != StatusWaitingToLogIn || c.Sess.IsClosed() {
			continue
		}
		w.dispatcher.CompleteLogin(w, c)
	}
}

// DispatchWorld drains in-world messages and advances combat timers.
func (w *World) DispatchWorld(dt time.Duration) {
	for _, c := range w.clients {
		if !c.InWorld() || c.Sess.IsClosed() {
			continue
		}
		for {
			msg, ok := c.Sess.Poll()
			if !ok {
				break
			}
			w.dispatcher.HandleWorld(w, c, msg)
			if !c.InWorld() {
				break
			}
		}
		if c.InWorld() {
			w.updateCombat(c, dt)
		}
	}
}

// victim is whatever an auto-attack can land on: a creature or another
// player's character, reduced to the fields combat needs.
type victim struct {
	guid   uint64
	health *uint32
	mapID  uint32
	pos    proto.Vector3
}

func (w *World) victimByGUID(guid uint64) *victim {
	if cr := w.CreatureByGUID(guid); cr != nil {
		return &victim{guid: cr.GUID, health: &cr.Health, mapID: cr.Map, pos: cr.Info.Position}
	}
	if cl := w.ClientByCharGUID(guid); cl != nil {
		char := cl.Char
		return &victim{guid: char.GUID, health: &char.Health, mapID: char.Map, pos: char.Position()}
	}
	return nil
}

func (w *World) updateCombat(c *Client, dt time.Duration) {
	char := c.Char
	if !char.Attacking {
		return
	}
	target := w.victimByGUID(char.Target)
	if target == nil || *target.health == 0 {
		char.Attacking = false
		w.BroadcastMap(char.Map, 0, &proto.AttackStopped{
			Attacker: char.GUID,
			Victim:   char.Target,
		})
		return
	}

	c.AttackTimer -= dt.Milliseconds()
	if c.AttackTimer > 0 {
		return
	}
	if target.mapID != char.Map || Distance(char.Position(), target.pos) > meleeRange {
		// Out of reach: hold the swing until the target is close again.
		c.AttackTimer = 0
		return
	}
	c.AttackTimer += attackIntervalMs

	if *target.health <= attackDamage {
		*target.health = 0
	} else {
		*target.health -= attackDamage
	}
	w.BroadcastMap(char.Map, 0, &proto.AttackerStateUpdate{
		Attacker: char.GUID,
		Victim:   target.guid,
		Damage:   attackDamage,
	})
	if *target.health == 0 {
		char.Attacking = false
		w.BroadcastMap(char.Map, 0, &proto.AttackStopped{
			Attacker: char.GUID,
			Victim:   target.guid,
		})
	}
}

// ProcessLogouts completes logouts requested earlier this tick. The
// character is saved, despawned for everyone else, and the client drops back
// to the character screen.
func (w *World) ProcessLogouts() {
	for _, c := range w.clients {
		if !c.LogoutPending || !c.InWorld() {
			c.LogoutPending = false
			continue
		}
		char := c.Char
		w.Store.Replace(char)
		w.BroadcastMap(char.Map, char.GUID, &proto.DestroyObject{GUID: char.GUID})
		c.Send(&proto.LogoutComplete{})
		w.Log.Info("character logged out",
			zap.String("name", char.Name),
			zap.Uint64("guid", char.GUID))
		c.Char = nil
		c.Status = StatusCharacterScreen
		c.LogoutPending = false
	}
}

// FlushOutput hands each client's buffered frames to its writer goroutine.
func (w *World) FlushOutput() {
	for _, c := range w.clients {
		c.Sess.FlushOutput()
	}
}

// Prune drops clients whose sockets died, saving any in-world character.
func (w *World) Prune() {
	alive := w.clients[:0]
	for _, c := range w.clients {
		if !c.Sess.IsClosed() {
			alive = append(alive, c)
			continue
		}
		if c.InWorld() {
			w.Store.Replace(c.Char)
			w.BroadcastMap(c.Char.Map, c.Char.GUID, &proto.DestroyObject{GUID: c.Char.GUID})
		}
		w.Log.Info("session pruned",
			zap.Uint64("session", c.Sess.ID),
			zap.String("account", c.Account()))
	}
	// Clear the tail so pruned clients can be collected.
	for i := len(alive); i < len(w.clients); i++ {
		w.clients[i] = nil
	}
	w.clients = alive
}

// EachInWorld calls fn for every client with a live character.
func (w *World) EachInWorld(fn func(*Client)) {
	for _, c := range w.clients {
		if c.InWorld() && !c.Sess.IsClosed() {
			fn(c)
		}
	}
}

// BroadcastMap sends msg to every in-world client on mapID except the guid
// given (zero to exclude nobody).
func (w *World) BroadcastMap(mapID uint32, exclude uint64, msg proto.ServerMessage) {
	w.EachInWorld(func(c *Client) {
		if c.Char.Map != mapID || c.Char.GUID == exclude {
			return
		}
		c.Send(msg)
	})
}

// BroadcastRange sends msg to every in-world client strictly closer than rng
// to from, on the same map only. includeSelf controls whether from's own
// client gets it.
func (w *World) BroadcastRange(from *Character, rng float32, includeSelf bool, msg proto.ServerMessage) {
	w.EachInWorld(func(c *Client) {
		if c.Char.Map != from.Map {
			return
		}
		if c.Char.GUID == from.GUID {
			if includeSelf {
				c.Send(msg)
			}
			return
		}
		if Distance(from.Position(), c.Char.Position()) < rng {
			c.Send(msg)
		}
	})
}

// ClientByCharGUID finds the in-world client controlling guid, or nil.
func (w *World) ClientByCharGUID(guid uint64) *Client {
	for _, c := range w.clients {
		if c.InWorld() && c.Char.GUID == guid {
			return c
		}
	}
	return nil
}

// ClientByCharName finds the in-world client whose character has this name,
// case-insensitively, or nil.
func (w *World) ClientByCharName(name string) *Client {
	for _, c := range w.clients {
		if c.InWorld() && strings.EqualFold(c.Char.Name, name) {
			return c
		}
	}
	return nil
}

// CreatureByGUID returns the creature with the given guid, or nil.
func (w *World) CreatureByGUID(guid uint64) *Creature {
	for _, cr := range w.creatures {
		if cr.GUID == guid {
			return cr
		}
	}
	return nil
}

// EachCreatureOnMap calls fn for every creature on mapID.
func (w *World) EachCreatureOnMap(mapID uint32, fn func(*Creature)) {
	for _, cr := range w.creatures {
		if cr.Map == mapID {
			fn(cr)
		}
	}
}

// Distance is the straight-line distance between two points.
func Distance(a, b proto.Vector3) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}
