package data

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadItemTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.yaml", `
items:
  - entry: 25
    name: "Worn Shortsword"
    display_id: 1542
    quality: 1
    inv_type: 13
    class: 2
    subclass: 7
    max_stack: 1
  - entry: 117
    name: "Tough Jerky"
    display_id: 2473
    max_stack: 20
`)

	table, err := LoadItemTable(filepath.Join(dir, "items.yaml"))
	if err != nil {
		t.Fatalf("LoadItemTable: %v", err)
	}
	if table.Count() != 2 {
		t.Fatalf("Count = %d, want 2", table.Count())
	}

	sword := table.Get(25)
	if sword == nil || sword.Name != "Worn Shortsword" || sword.InvType != 13 {
		t.Errorf("Get(25) = %+v", sword)
	}
	if table.Get(9999) != nil {
		t.Error("Get(9999) should be nil")
	}
	if got := table.FindByName("tough jerky"); got == nil || got.Entry != 117 {
		t.Errorf("FindByName = %+v, want entry 117", got)
	}
}

func TestLoadItemTableErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadItemTable(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	writeFile(t, dir, "bad.yaml", "items: {not a list}")
	if _, err := LoadItemTable(filepath.Join(dir, "bad.yaml")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestLoadCharStartTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "char_start.yaml", `
char_start:
  - race: 1
    class: 1
    map: 0
    x: -8949.95
    y: -132.493
    z: 83.5312
    zone: 12
    faction: 1
    items:
      - { entry: 25, slot: 15, count: 1 }
    spells: [78, 6603]
`)

	table, err := LoadCharStartTable(filepath.Join(dir, "char_start.yaml"))
	if err != nil {
		t.Fatalf("LoadCharStartTable: %v", err)
	}

	entry := table.Get(RaceHuman, ClassWarrior)
	if entry == nil {
		t.Fatal("human warrior combo missing")
	}
	if entry.Map != 0 || entry.Zone != 12 || len(entry.Items) != 1 || len(entry.Spells) != 2 {
		t.Errorf("entry = %+v", entry)
	}

	// Combos not in the table cannot be created.
	if table.Get(RaceHuman, ClassShaman) != nil {
		t.Error("human shaman should not resolve")
	}
}

func TestLocationTableCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "locations.yaml", `
locations:
  - name: "Stormwind"
    map: 0
    x: -8913.23
    y: 554.633
    z: 93.7944
`)
	table, err := LoadLocationTable(filepath.Join(dir, "locations.yaml"))
	if err != nil {
		t.Fatalf("LoadLocationTable: %v", err)
	}
	if table.Get("stormwind") == nil || table.Get("STORMWIND") == nil {
		t.Error("lookup should ignore case")
	}
}

func TestPlayerDisplayID(t *testing.T) {
	if got := PlayerDisplayID(RaceHuman, 0); got != 49 {
		t.Errorf("human male = %d, want 49", got)
	}
	if got := PlayerDisplayID(RaceHuman, 1); got != 50 {
		t.Errorf("human female = %d, want 50", got)
	}
	if got := PlayerDisplayID(99, 0); got != 0 {
		t.Errorf("unknown race = %d, want 0", got)
	}
}
