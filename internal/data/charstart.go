package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Race and class ids as the client sends them in character creation.
const (
	RaceHuman    byte = 1
	RaceOrc      byte = 2
	RaceDwarf    byte = 3
	RaceNightElf byte = 4
	RaceUndead   byte = 5
	RaceTauren   byte = 6
	RaceGnome    byte = 7
	RaceTroll    byte = 8

	ClassWarrior byte = 1
	ClassPaladin byte = 2
	ClassHunter  byte = 3
	ClassRogue   byte = 4
	ClassPriest  byte = 5
	ClassShaman  byte = 7
	ClassMage    byte = 8
	ClassWarlock byte = 9
	ClassDruid   byte = 11
)

// StarterItem is one item a fresh character starts with, already placed in a
// specific inventory slot.
type StarterItem struct {
	Entry uint32 `yaml:"entry"`
	Slot  uint8  `yaml:"slot"`
	Count uint32 `yaml:"count"`
}

// CharStartEntry defines everything a new character of one race/class combo
// begins with: spawn point, starter kit, and known spells.
type CharStartEntry struct {
	Race        byte          `yaml:"race"`
	Class       byte          `yaml:"class"`
	Map         uint32        `yaml:"map"`
	X           float32       `yaml:"x"`
	Y           float32       `yaml:"y"`
	Z           float32       `yaml:"z"`
	Orientation float32       `yaml:"orientation"`
	Zone        uint32        `yaml:"zone"`
	Faction     uint32        `yaml:"faction"`
	Items       []StarterItem `yaml:"items"`
	Spells      []uint16      `yaml:"spells"`
}

type charStartFile struct {
	Entries []CharStartEntry `yaml:"char_start"`
}

type raceClassKey struct {
	race  byte
	class byte
}

// CharStartTable holds start entries indexed by (race, class).
type CharStartTable struct {
	entries map[raceClassKey]*CharStartEntry
}

// LoadCharStartTable loads character start data from a YAML file.
func LoadCharStartTable(path string) (*CharStartTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read char_start: %w", err)
	}
	var f charStartFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse char_start: %w", err)
	}
	t := &CharStartTable{entries: make(map[raceClassKey]*CharStartEntry, len(f.Entries))}
	for i := range f.Entries {
		e := &f.Entries[i]
		t.entries[raceClassKey{race: e.Race, class: e.Class}] = e
	}
	return t, nil
}

// Get returns the start entry for a race/class combo, or nil if that combo
// cannot be created.
func (t *CharStartTable) Get(race, class byte) *CharStartEntry {
	return t.entries[raceClassKey{race: race, class: class}]
}

// Count returns the number of loaded combos.
func (t *CharStartTable) Count() int {
	return len(t.entries)
}

// raceDisplayBase maps race to the male display id; female is base+1.
var raceDisplayBase = map[byte]uint32{
	RaceHuman:    49,
	RaceOrc:      51,
	RaceDwarf:    53,
	RaceNightElf: 55,
	RaceUndead:   57,
	RaceTauren:   59,
	RaceGnome:    1563,
	RaceTroll:    1478,
}

// PlayerDisplayID returns the model id for a race and gender.
func PlayerDisplayID(race, gender byte) uint32 {
	base, ok := raceDisplayBase[race]
	if !ok {
		return 0
	}
	return base + uint32(gender)
}
