package data

import (
	"fmt"
	"path/filepath"
)

// Tables bundles every static table the world needs, loaded once at boot.
type Tables struct {
	Items        *ItemTable
	Creatures    *CreatureTable
	Spawns       []CreatureSpawn
	CharStart    *CharStartTable
	Locations    *LocationTable
	AreaTriggers *AreaTriggerTable
}

// LoadAll loads every table from dir. Any missing or malformed file fails
// the whole load; the server does not start with partial data.
func LoadAll(dir string) (*Tables, error) {
	items, err := LoadItemTable(filepath.Join(dir, "item_list.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	creatures, err := LoadCreatureTable(filepath.Join(dir, "creature_list.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	spawns, err := LoadCreatureSpawns(filepath.Join(dir, "creature_spawns.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	charStart, err := LoadCharStartTable(filepath.Join(dir, "char_start.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	locations, err := LoadLocationTable(filepath.Join(dir, "location_list.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	triggers, err := LoadAreaTriggerTable(filepath.Join(dir, "area_triggers.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return &Tables{
		Items:        items,
		Creatures:    creatures,
		Spawns:       spawns,
		CharStart:    charStart,
		Locations:    locations,
		AreaTriggers: triggers,
	}, nil
}
