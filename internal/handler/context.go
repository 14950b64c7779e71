// Package handler routes decoded client messages to game logic. Handlers
// run on the tick goroutine and may touch world state freely.
package handler

import (
	"runtime/debug"

	"github.com/frostmere/server/internal/config"
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	Tables *data.Tables
}

// Dispatcher implements world.Dispatcher over typed messages. A message
// legal in one lifecycle stage is ignored with a log line in the other
// rather than killing the session.
type Dispatcher struct {
	deps *Deps
}

func New(deps *Deps) *Dispatcher {
	return &Dispatcher{deps: deps}
}

// HandleCharacterScreen routes messages from clients that have not yet
// entered the world.
func (d *Dispatcher) HandleCharacterScreen(w *world.World, c *world.Client, msg proto.ClientMessage) {
	defer d.recoverPanic(c, msg)

	switch m := msg.(type) {
	case *proto.CharEnum:
		d.handleCharEnum(w, c)
	case *proto.CharCreate:
		d.handleCharCreate(w, c, m)
	case *proto.CharDelete:
		d.handleCharDelete(w, c, m)
	case *proto.PlayerLogin:
		d.handlePlayerLogin(w, c, m)
	case *proto.Ping:
		c.Send(&proto.Pong{Sequence: m.Sequence})
	case *proto.Unhandled:
		d.deps.Log.Debug("unhandled opcode at character screen",
			zap.String("op", m.Op.String()),
			zap.String("account", c.Account()))
	default:
		d.deps.Log.Debug("message not valid at character screen",
			zap.String("op", msg.Opcode().String()),
			zap.String("account", c.Account()))
	}
}

// HandleWorld routes messages from clients controlling a live character.
func (d *Dispatcher) HandleWorld(w *world.World, c *world.Client, msg proto.ClientMessage) {
	defer d.recoverPanic(c, msg)

	switch m := msg.(type) {
	case *proto.Move:
		d.handleMove(w, c, m)
	case *proto.WorldportAck:
		d.handleWorldportAck(w, c)
	case *proto.WorldTeleport:
		d.handleWorldTeleport(w, c, m)
	case *proto.TeleportToUnit:
		d.handleTeleportToUnit(w, c, m)
	case *proto.MessageChat:
		d.handleChat(w, c, m)
	case *proto.LogoutRequest:
		d.handleLogoutRequest(c)
	case *proto.SetSelection:
		c.Char.Target = m.Target
	case *proto.AttackSwing:
		d.handleAttackSwing(w, c, m)
	case *proto.AttackStop:
		d.handleAttackStop(w, c)
	case *proto.SwapInvItem:
		d.handleSwapInvItem(w, c, m)
	case *proto.AreaTrigger:
		d.handleAreaTrigger(w, c, m)
	case *proto.NameQuery:
		d.handleNameQuery(w, c, m)
	case *proto.ItemQuerySingle:
		d.handleItemQuery(c, m)
	case *proto.CreatureQuery:
		d.handleCreatureQuery(c, m)
	case *proto.QueryTime:
		d.handleQueryTime(c)
	case *proto.Ping:
		c.Send(&proto.Pong{Sequence: m.Sequence})
	case *proto.Unhandled:
		d.deps.Log.Debug("unhandled opcode in world",
			zap.String("op", m.Op.String()),
			zap.String("character", c.Char.Name))
	default:
		d.deps.Log.Debug("message not valid in world",
			zap.String("op", msg.Opcode().String()),
			zap.String("character", c.Char.Name))
	}
}

// recoverPanic keeps one bad handler from taking the tick loop down. The
// offending session is dropped instead.
func (d *Dispatcher) recoverPanic(c *world.Client, msg proto.ClientMessage) {
	if r := recover(); r != nil {
		d.deps.Log.Error("handler panic",
			zap.String("op", msg.Opcode().String()),
			zap.String("account", c.Account()),
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()))
		c.Sess.Close()
	}
}
