package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AreaTriggerDest maps a client area trigger to a teleport destination.
type AreaTriggerDest struct {
	TriggerID   uint32  `yaml:"trigger_id"`
	Map         uint32  `yaml:"map"`
	X           float32 `yaml:"x"`
	Y           float32 `yaml:"y"`
	Z           float32 `yaml:"z"`
	Orientation float32 `yaml:"orientation"`
}

type areaTriggerFile struct {
	Triggers []AreaTriggerDest `yaml:"triggers"`
}

// AreaTriggerTable holds teleport triggers indexed by trigger id.
type AreaTriggerTable struct {
	triggers map[uint32]*AreaTriggerDest
}

// LoadAreaTriggerTable loads teleport area triggers from a YAML file.
func LoadAreaTriggerTable(path string) (*AreaTriggerTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read area_triggers: %w", err)
	}
	var f areaTriggerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse area_triggers: %w", err)
	}
	t := &AreaTriggerTable{triggers: make(map[uint32]*AreaTriggerDest, len(f.Triggers))}
	for i := range f.Triggers {
		tr := &f.Triggers[i]
		t.triggers[tr.TriggerID] = tr
	}
	return t, nil
}

// Get returns a trigger destination by id, or nil if the trigger does not
// teleport.
func (t *AreaTriggerTable) Get(id uint32) *AreaTriggerDest {
	return t.triggers[id]
}

// Count returns the number of loaded triggers.
func (t *AreaTriggerTable) Count() int {
	return len(t.triggers)
}
