package handler

import (
	"time"

	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// handleNameQuery answers from the character store, so offline characters
// resolve too (chat history, friend lists).
func (d *Dispatcher) handleNameQuery(w *world.World, c *world.Client, m *proto.NameQuery) {
	char, ok := w.Store.Get(m.GUID)
	if !ok {
		d.deps.Log.Debug("name query for unknown guid", zap.Uint64("guid", m.GUID))
		return
	}
	c.Send(&proto.NameQueryResponse{
		GUID:   char.GUID,
		Name:   char.Name,
		Race:   uint32(char.Race),
		Gender: uint32(char.Gender),
		Class:  uint32(char.Class),
	})
}

func (d *Dispatcher) handleItemQuery(c *world.Client, m *proto.ItemQuerySingle) {
	tmpl := d.deps.Tables.Items.Get(m.ItemID)
	if tmpl == nil {
		d.deps.Log.Debug("item query for unknown entry", zap.Uint32("entry", m.ItemID))
		return
	}
	c.Send(&proto.ItemQueryResponse{
		ItemID:    tmpl.Entry,
		Name:      tmpl.Name,
		DisplayID: tmpl.DisplayID,
		Quality:   tmpl.Quality,
		InvType:   tmpl.InvType,
		ItemClass: tmpl.ItemClass,
		SubClass:  tmpl.SubClass,
		MaxStack:  tmpl.MaxStack,
	})
}

func (d *Dispatcher) handleCreatureQuery(c *world.Client, m *proto.CreatureQuery) {
	tmpl := d.deps.Tables.Creatures.Get(m.Entry)
	if tmpl == nil {
		d.deps.Log.Debug("creature query for unknown entry", zap.Uint32("entry", m.Entry))
		return
	}
	c.Send(&proto.CreatureQueryResponse{
		Entry:     tmpl.Entry,
		Name:      tmpl.Name,
		DisplayID: tmpl.DisplayID,
	})
}

func (d *Dispatcher) handleQueryTime(c *world.Client) {
	c.Send(&proto.QueryTimeResponse{Time: uint32(time.Now().Unix())})
}
