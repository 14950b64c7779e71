package handler

import (
	"fmt"
	"strings"

	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

func (d *Dispatcher) handleChat(w *world.World, c *world.Client, m *proto.MessageChat) {
	if cmd, ok := strings.CutPrefix(m.Message, "."); ok {
		d.handleGmCommand(w, c, cmd)
		return
	}

	char := c.Char
	switch m.ChatType {
	case proto.ChatTypeSay, proto.ChatTypeEmote:
		w.BroadcastRange(char, d.deps.Config.World.SayRange, true, &proto.ChatMessage{
			ChatType: byte(m.ChatType),
			Language: m.Language,
			Sender:   char.GUID,
			Message:  m.Message,
		})
	case proto.ChatTypeYell:
		w.BroadcastRange(char, d.deps.Config.World.YellRange, true, &proto.ChatMessage{
			ChatType: byte(m.ChatType),
			Language: m.Language,
			Sender:   char.GUID,
			Message:  m.Message,
		})
	case proto.ChatTypeWhisper:
		d.handleWhisper(w, c, m)
	default:
		d.deps.Log.Debug("unsupported chat type",
			zap.Uint32("type", m.ChatType),
			zap.String("character", char.Name))
	}
}

func (d *Dispatcher) handleWhisper(w *world.World, c *world.Client, m *proto.MessageChat) {
	if strings.EqualFold(m.Target, c.Char.Name) {
		systemMessage(c, "You can't send a whisper to yourself.")
		return
	}
	target := w.ClientByCharName(m.Target)
	if target == nil {
		systemMessage(c, fmt.Sprintf("No player named '%s' is currently playing.", m.Target))
		return
	}
	target.Send(&proto.ChatMessage{
		ChatType: byte(proto.ChatTypeWhisper),
		Language: m.Language,
		Sender:   c.Char.GUID,
		Message:  m.Message,
	})
	c.Send(&proto.ChatMessage{
		ChatType: byte(proto.ChatTypeWhisperInform),
		Language: m.Language,
		Sender:   target.Char.GUID,
		Message:  m.Message,
	})
}

// systemMessage sends server text only the receiving client sees.
func systemMessage(c *world.Client, text string) {
	c.Send(&proto.ChatMessage{
		ChatType: byte(proto.ChatTypeSystem),
		Language: 0,
		Message:  text,
	})
}
