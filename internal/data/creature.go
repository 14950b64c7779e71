package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CreatureTemplate holds static data for a creature type loaded from YAML.
type CreatureTemplate struct {
	Entry     uint32 `yaml:"entry"`
	Name      string `yaml:"name"`
	DisplayID uint32 `yaml:"display_id"`
	Level     uint32 `yaml:"level"`
	MaxHealth uint32 `yaml:"max_health"`
	Faction   uint32 `yaml:"faction"`
}

// CreatureSpawn places one creature instance in the world.
type CreatureSpawn struct {
	Entry       uint32  `yaml:"entry"`
	Map         uint32  `yaml:"map"`
	X           float32 `yaml:"x"`
	Y           float32 `yaml:"y"`
	Z           float32 `yaml:"z"`
	Orientation float32 `yaml:"orientation"`
}

type creatureListFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

type creatureSpawnFile struct {
	Spawns []CreatureSpawn `yaml:"spawns"`
}

// CreatureTable holds all creature templates indexed by entry.
type CreatureTable struct {
	templates map[uint32]*CreatureTemplate
}

// LoadCreatureTable loads creature templates from a YAML file.
func LoadCreatureTable(path string) (*CreatureTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read creature_list: %w", err)
	}
	var f creatureListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creature_list: %w", err)
	}
	t := &CreatureTable{templates: make(map[uint32]*CreatureTemplate, len(f.Creatures))}
	for i := range f.Creatures {
		c := &f.Creatures[i]
		t.templates[c.Entry] = c
	}
	return t, nil
}

// Get returns a creature template by entry, or nil if not found.
func (t *CreatureTable) Get(entry uint32) *CreatureTemplate {
	return t.templates[entry]
}

// Count returns the number of loaded templates.
func (t *CreatureTable) Count() int {
	return len(t.templates)
}

// LoadCreatureSpawns loads creature spawn points from a YAML file.
func LoadCreatureSpawns(path string) ([]CreatureSpawn, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read creature_spawns: %w", err)
	}
	var f creatureSpawnFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creature_spawns: %w", err)
	}
	return f.Spawns, nil
}
