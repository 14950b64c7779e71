package world

import "testing"

func TestInventorySwap(t *testing.T) {
	var inv Inventory
	sword := &Item{GUID: 1, Entry: 25, Count: 1}
	jerky := &Item{GUID: 2, Entry: 117, Count: 5}
	inv.Set(SlotMainHand, sword)
	inv.Set(BackpackStart, jerky)

	if err := inv.Swap(SlotMainHand, BackpackStart); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if got := inv.Get(SlotMainHand); got != jerky {
		t.Errorf("main hand = %+v, want jerky", got)
	}
	if got := inv.Get(BackpackStart); got != sword {
		t.Errorf("backpack = %+v, want sword", got)
	}

	// Swap into an empty slot moves the item.
	if err := inv.Swap(SlotMainHand, SlotOffHand); err != nil {
		t.Fatalf("Swap to empty: %v", err)
	}
	if inv.Get(SlotMainHand) != nil {
		t.Error("main hand should be empty after swap to empty slot")
	}
	if inv.Get(SlotOffHand) != jerky {
		t.Error("off hand should hold the swapped item")
	}
}

func TestInventorySwapOutOfRange(t *testing.T) {
	var inv Inventory
	if err := inv.Swap(0, BackpackEnd); err == nil {
		t.Error("Swap past the last slot should error")
	}
	if err := inv.Swap(200, 0); err == nil {
		t.Error("Swap from an out-of-range slot should error")
	}
}

func TestInventoryInsert(t *testing.T) {
	var inv Inventory

	slot, ok := inv.Insert(&Item{GUID: 1, Entry: 117, Count: 1})
	if !ok || slot != BackpackStart {
		t.Fatalf("Insert = (%d, %v), want first backpack slot", slot, ok)
	}

	// Insert skips occupied slots.
	inv.Set(BackpackStart+1, &Item{GUID: 2, Entry: 159, Count: 1})
	slot, ok = inv.Insert(&Item{GUID: 3, Entry: 117, Count: 1})
	if !ok || slot != BackpackStart+2 {
		t.Fatalf("Insert = (%d, %v), want slot %d", slot, ok, BackpackStart+2)
	}
}

func TestInventoryInsertFull(t *testing.T) {
	var inv Inventory
	for s := BackpackStart; s < BackpackEnd; s++ {
		inv.Set(s, &Item{GUID: uint64(s), Entry: 117, Count: 1})
	}
	if _, ok := inv.Insert(&Item{GUID: 99, Entry: 25, Count: 1}); ok {
		t.Error("Insert into a full backpack should fail")
	}

	// Equipment slots being free must not matter.
	if inv.Get(SlotHead) != nil {
		t.Fatal("head slot unexpectedly occupied")
	}
}

func TestInventoryClone(t *testing.T) {
	var inv Inventory
	inv.Set(SlotChest, &Item{GUID: 1, Entry: 6097, Count: 1})

	cp := inv.Clone()
	cp.Get(SlotChest).Count = 99
	if inv.Get(SlotChest).Count != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestInventoryEquipmentIteration(t *testing.T) {
	var inv Inventory
	inv.Set(SlotMainHand, &Item{GUID: 1, Entry: 25, Count: 1})
	inv.Set(BackpackStart, &Item{GUID: 2, Entry: 117, Count: 5})

	var seen []uint8
	inv.Equipment(func(slot uint8, item *Item) {
		seen = append(seen, slot)
	})
	if len(seen) != 1 || seen[0] != SlotMainHand {
		t.Errorf("Equipment visited %v, want only the main hand", seen)
	}
}
