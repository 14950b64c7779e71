package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location is a named teleport destination.
type Location struct {
	Name        string  `yaml:"name"`
	Map         uint32  `yaml:"map"`
	X           float32 `yaml:"x"`
	Y           float32 `yaml:"y"`
	Z           float32 `yaml:"z"`
	Orientation float32 `yaml:"orientation"`
}

type locationListFile struct {
	Locations []Location `yaml:"locations"`
}

// LocationTable holds named locations, keyed case-insensitively.
type LocationTable struct {
	locations map[string]*Location
}

// LoadLocationTable loads named locations from a YAML file.
func LoadLocationTable(path string) (*LocationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read location_list: %w", err)
	}
	var f locationListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse location_list: %w", err)
	}
	t := &LocationTable{locations: make(map[string]*Location, len(f.Locations))}
	for i := range f.Locations {
		loc := &f.Locations[i]
		t.locations[strings.ToLower(loc.Name)] = loc
	}
	return t, nil
}

// Get returns a location by name, or nil if not found.
func (t *LocationTable) Get(name string) *Location {
	return t.locations[strings.ToLower(name)]
}

// Count returns the number of loaded locations.
func (t *LocationTable) Count() int {
	return len(t.locations)
}
