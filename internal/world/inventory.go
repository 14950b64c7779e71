package world

import "fmt"

// Inventory slot layout. Equipment slots come first, then bag slots, then
// the backpack. Bag contents are not modeled; the four bag slots only hold
// the bags themselves.
const (
	SlotHead      uint8 = 0
	SlotNeck      uint8 = 1
	SlotShoulders uint8 = 2
	SlotShirt     uint8 = 3
	SlotChest     uint8 = 4
	SlotWaist     uint8 = 5
	SlotLegs      uint8 = 6
	SlotFeet      uint8 = 7
	SlotWrists    uint8 = 8
	SlotHands     uint8 = 9
	SlotFinger1   uint8 = 10
	SlotFinger2   uint8 = 11
	SlotTrinket1  uint8 = 12
	SlotTrinket2  uint8 = 13
	SlotBack      uint8 = 14
	SlotMainHand  uint8 = 15
	SlotOffHand   uint8 = 16
	SlotRanged    uint8 = 17
	SlotTabard    uint8 = 18

	EquipmentEnd  uint8 = 19
	BagStart      uint8 = 19
	BagEnd        uint8 = 23
	BackpackStart uint8 = 23
	BackpackEnd   uint8 = 39

	// InventorySlots is the total addressable slot count.
	InventorySlots = int(BackpackEnd)
)

// Item is one stack sitting in an inventory slot.
type Item struct {
	GUID  uint64
	Entry uint32
	Count uint32
}

// Inventory is a fixed slot array. A nil entry is an empty slot.
type Inventory struct {
	slots [InventorySlots]*Item
}

// Clone deep-copies the inventory.
func (inv *Inventory) Clone() Inventory {
	var cp Inventory
	for i, item := range inv.slots {
		if item != nil {
			dup := *item
			cp.slots[i] = &dup
		}
	}
	return cp
}

// Get returns the item in slot, or nil for empty or out-of-range slots.
func (inv *Inventory) Get(slot uint8) *Item {
	if int(slot) >= InventorySlots {
		return nil
	}
	return inv.slots[slot]
}

// Set places an item in slot, replacing whatever was there.
func (inv *Inventory) Set(slot uint8, item *Item) error {
	if int(slot) >= InventorySlots {
		return fmt.Errorf("inventory slot %d out of range", slot)
	}
	inv.slots[slot] = item
	return nil
}

// Clear empties slot and returns what was in it.
func (inv *Inventory) Clear(slot uint8) *Item {
	if int(slot) >= InventorySlots {
		return nil
	}
	item := inv.slots[slot]
	inv.slots[slot] = nil
	return item
}

// Swap exchanges the contents of two slots. Swapping a slot with itself is
// a no-op.
func (inv *Inventory) Swap(a, b uint8) error {
	if int(a) >= InventorySlots {
		return fmt.Errorf("inventory slot %d out of range", a)
	}
	if int(b) >= InventorySlots {
		return fmt.Errorf("inventory slot %d out of range", b)
	}
	inv.slots[a], inv.slots[b] = inv.slots[b], inv.slots[a]
	return nil
}

// Insert places an item in the first free backpack slot and returns the
// slot it landed in. ok is false when the backpack is full.
func (inv *Inventory) Insert(item *Item) (slot uint8, ok bool) {
	for s := BackpackStart; s < BackpackEnd; s++ {
		if inv.slots[s] == nil {
			inv.slots[s] = item
			return s, true
		}
	}
	return 0, false
}

// Equipment iterates the worn slots, skipping empties.
func (inv *Inventory) Equipment(fn func(slot uint8, item *Item)) {
	for s := uint8(0); s < EquipmentEnd; s++ {
		if inv.slots[s] != nil {
			fn(s, inv.slots[s])
		}
	}
}

// All iterates every occupied slot.
func (inv *Inventory) All(fn func(slot uint8, item *Item)) {
	for s := 0; s < InventorySlots; s++ {
		if inv.slots[s] != nil {
			fn(uint8(s), inv.slots[s])
		}
	}
}
