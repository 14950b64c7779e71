package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Inventory types the client uses to place equipment visually.
const (
	InvTypeNonEquip uint32 = 0
	InvTypeHead     uint32 = 1
	InvTypeNeck     uint32 = 2
	InvTypeShoulder uint32 = 3
	InvTypeBody     uint32 = 4
	InvTypeChest    uint32 = 5
	InvTypeWaist    uint32 = 6
	InvTypeLegs     uint32 = 7
	InvTypeFeet     uint32 = 8
	InvTypeWrists   uint32 = 9
	InvTypeHands    uint32 = 10
	InvTypeWeapon   uint32 = 13
	InvTypeShield   uint32 = 14
	InvTypeRanged   uint32 = 15
	InvTypeBag      uint32 = 18
	InvType2HWeapon uint32 = 17
	InvTypeTabard   uint32 = 19
)

// ItemTemplate holds static data for an item type loaded from YAML.
type ItemTemplate struct {
	Entry     uint32 `yaml:"entry"`
	Name      string `yaml:"name"`
	DisplayID uint32 `yaml:"display_id"`
	Quality   uint32 `yaml:"quality"`
	InvType   uint32 `yaml:"inv_type"`
	ItemClass uint32 `yaml:"class"`
	SubClass  uint32 `yaml:"subclass"`
	MaxStack  uint32 `yaml:"max_stack"`
}

type itemListFile struct {
	Items []ItemTemplate `yaml:"items"`
}

// ItemTable holds all item templates indexed by entry.
type ItemTable struct {
	templates map[uint32]*ItemTemplate
}

// LoadItemTable loads item templates from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item_list: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse item_list: %w", err)
	}
	t := &ItemTable{templates: make(map[uint32]*ItemTemplate, len(f.Items))}
	for i := range f.Items {
		item := &f.Items[i]
		t.templates[item.Entry] = item
	}
	return t, nil
}

// Get returns an item template by entry, or nil if not found.
func (t *ItemTable) Get(entry uint32) *ItemTemplate {
	return t.templates[entry]
}

// FindByName returns the first item template whose name matches
// case-insensitively, or nil.
func (t *ItemTable) FindByName(name string) *ItemTemplate {
	for _, tmpl := range t.templates {
		if strings.EqualFold(tmpl.Name, name) {
			return tmpl
		}
	}
	return nil
}

// Count returns the number of loaded templates.
func (t *ItemTable) Count() int {
	return len(t.templates)
}
