// Package store holds the in-memory databases: character records and
// account credentials. Maps are sharded so session goroutines and the tick
// loop never contend on one lock.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/frostmere/server/internal/world"
	cmap "github.com/orcaman/concurrent-map/v2"
)

func guidShard(guid uint64) uint32 {
	return uint32(guid) ^ uint32(guid>>32)
}

// CharacterDB is the character database. Every read hands out a deep copy
// and every write stores one, so callers can never alias live records.
type CharacterDB struct {
	chars cmap.ConcurrentMap[uint64, *world.Character]
	names cmap.ConcurrentMap[string, uint64] // lowercase name -> guid
	next  atomic.Uint64
}

func NewCharacterDB() *CharacterDB {
	return &CharacterDB{
		chars: cmap.NewWithCustomShardingFunction[uint64, *world.Character](guidShard),
		names: cmap.New[uint64](),
	}
}

// NewGUID returns a fresh, never-reused guid. Guids are monotonic so a
// deleted character's guid never comes back.
func (db *CharacterDB) NewGUID() uint64 {
	return db.next.Add(1)
}

// Get returns a snapshot of the character, or ok=false if the guid does not
// exist.
func (db *CharacterDB) Get(guid uint64) (*world.Character, bool) {
	c, ok := db.chars.Get(guid)
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Replace writes a character snapshot back, overwriting the stored record.
func (db *CharacterDB) Replace(c *world.Character) {
	db.chars.Set(c.GUID, c.Clone())
}

// Create inserts a new character. The name must be unused; names are
// reserved case-insensitively.
func (db *CharacterDB) Create(c *world.Character) error {
	key := strings.ToLower(c.Name)
	if !db.names.SetIfAbsent(key, c.GUID) {
		return fmt.Errorf("character name %q already in use", c.Name)
	}
	db.chars.Set(c.GUID, c.Clone())
	return nil
}

// Delete removes a character and frees its name.
func (db *CharacterDB) Delete(guid uint64) {
	c, ok := db.chars.Get(guid)
	if !ok {
		return
	}
	db.chars.Remove(guid)
	db.names.Remove(strings.ToLower(c.Name))
}

// ListForAccount returns snapshots of every character on an account, in
// guid order.
func (db *CharacterDB) ListForAccount(account string) []*world.Character {
	var out []*world.Character
	for item := range db.chars.IterBuffered() {
		if strings.EqualFold(item.Val.Account, account) {
			out = append(out, item.Val.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GUID < out[j].GUID })
	return out
}

// FindByName returns a snapshot of the character with the given name.
func (db *CharacterDB) FindByName(name string) (*world.Character, bool) {
	guid, ok := db.names.Get(strings.ToLower(name))
	if !ok {
		return nil, false
	}
	return db.Get(guid)
}

// Count returns the number of stored characters.
func (db *CharacterDB) Count() int {
	return db.chars.Count()
}
