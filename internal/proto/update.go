package proto

import "sort"

// Object type ids carried in create blocks.
const (
	ObjectTypeItem   byte = 1
	ObjectTypeUnit   byte = 4
	ObjectTypePlayer byte = 5
)

// Object type mask bits for OBJECT_FIELD_TYPE.
const (
	TypeMaskObject uint32 = 0x0001
	TypeMaskItem   uint32 = 0x0002
	TypeMaskUnit   uint32 = 0x0008
	TypeMaskPlayer uint32 = 0x0010
)

// Update block types.
const (
	updateTypeValues        byte = 0
	updateTypeMovement      byte = 1
	updateTypeCreateObject2 byte = 3
	updateTypeOutOfRange    byte = 4
)

// Field indices for the values block. Object fields are shared; unit fields
// start after them, player fields after those.
const (
	FieldGUID            uint16 = 0 // 2 slots
	FieldType            uint16 = 2
	FieldEntry           uint16 = 3
	FieldScaleX          uint16 = 4
	FieldHealth          uint16 = 22
	FieldMaxHealth       uint16 = 28
	FieldLevel           uint16 = 34
	FieldFaction         uint16 = 35
	FieldBytes0          uint16 = 36 // race | class<<8 | gender<<16 | power<<24
	FieldDisplayID       uint16 = 131
	FieldNativeDisplayID uint16 = 132

	// Item fields.
	FieldItemOwner      uint16 = 6 // 2 slots
	FieldItemContained  uint16 = 8 // 2 slots
	FieldItemStackCount uint16 = 14

	// Player fields.
	FieldPlayerBytes            uint16 = 196 // skin | face<<8 | hairstyle<<16 | haircolor<<24
	FieldPlayerBytes2           uint16 = 197 // facialhair in low byte
	FieldPlayerVisibleItemStart uint16 = 260 // 12 slots per equipment slot
	FieldPlayerInvStart         uint16 = 486 // 2 slots per inventory slot
)

// UpdateMask accumulates values-block fields keyed by index. Encode emits the
// block count, the bitmask, and the set values in index order, which is the
// layout the client expects.
type UpdateMask struct {
	values map[uint16]uint32
}

func NewUpdateMask() *UpdateMask {
	return &UpdateMask{values: make(map[uint16]uint32)}
}

// SetUint32 sets a single field slot.
func (m *UpdateMask) SetUint32(index uint16, v uint32) {
	m.values[index] = v
}

// SetUint64 sets a two-slot field (guids).
func (m *UpdateMask) SetUint64(index uint16, v uint64) {
	m.values[index] = uint32(v)
	m.values[index+1] = uint32(v >> 32)
}

// SetFloat32 sets a single field slot holding a float.
func (m *UpdateMask) SetFloat32(index uint16, v float32) {
	w := NewWriter()
	w.WriteF(v)
	m.values[index] = NewReader(w.Bytes()).ReadD()
}

// Len returns the number of set field slots.
func (m *UpdateMask) Len() int {
	return len(m.values)
}

func (m *UpdateMask) encode(w *Writer) {
	indices := make([]int, 0, len(m.values))
	maxIndex := 0
	for i := range m.values {
		indices = append(indices, int(i))
		if int(i) > maxIndex {
			maxIndex = int(i)
		}
	}
	sort.Ints(indices)

	blocks := maxIndex/32 + 1
	w.WriteC(byte(blocks))
	mask := make([]uint32, blocks)
	for _, i := range indices {
		mask[i/32] |= 1 << uint(i%32)
	}
	for _, b := range mask {
		w.WriteD(b)
	}
	for _, i := range indices {
		w.WriteD(m.values[uint16(i)])
	}
}

// UpdateEntry is one block inside SMSG_UPDATE_OBJECT.
type UpdateEntry interface {
	encode(w *Writer)
}

// CreatePlayer spawns a player object with full movement state and values.
type CreatePlayer struct {
	GUID     uint64
	Self     bool
	Info     MovementInfo
	RunSpeed float32
	Mask     *UpdateMask
}

func (e *CreatePlayer) encode(w *Writer) {
	w.WriteC(updateTypeCreateObject2)
	writePackedGUID(w, e.GUID)
	w.WriteC(ObjectTypePlayer)
	flags := byte(0x70) // living | has position | high guid
	if e.Self {
		flags |= 0x01
	}
	w.WriteC(flags)
	writeMovementInfo(w, e.Info)
	w.WriteF(1.0)        // walk speed
	w.WriteF(e.RunSpeed) // run speed
	w.WriteF(4.5)        // reverse speed
	w.WriteF(0.0)        // swim speed
	w.WriteF(0.0)        // swim reverse speed
	w.WriteF(3.1415927)  // turn rate
	w.WriteD(0)          // high guid
	e.Mask.encode(w)
}

// CreateCreature spawns a creature with a static position.
type CreateCreature struct {
	GUID uint64
	Info MovementInfo
	Mask *UpdateMask
}

func (e *CreateCreature) encode(w *Writer) {
	w.WriteC(updateTypeCreateObject2)
	writePackedGUID(w, e.GUID)
	w.WriteC(ObjectTypeUnit)
	w.WriteC(0x70) // living | has position | high guid
	writeMovementInfo(w, e.Info)
	w.WriteF(1.0)
	w.WriteF(7.0)
	w.WriteF(4.5)
	w.WriteF(0.0)
	w.WriteF(0.0)
	w.WriteF(3.1415927)
	w.WriteD(0)
	e.Mask.encode(w)
}

// CreateItem spawns an item object. Items carry no movement block, only a
// values mask.
type CreateItem struct {
	GUID uint64
	Mask *UpdateMask
}

func (e *CreateItem) encode(w *Writer) {
	w.WriteC(updateTypeCreateObject2)
	writePackedGUID(w, e.GUID)
	w.WriteC(ObjectTypeItem)
	w.WriteC(0x40) // high guid only
	w.WriteD(0)
	e.Mask.encode(w)
}

// Values updates fields on an already-created object.
type Values struct {
	GUID uint64
	Mask *UpdateMask
}

func (e *Values) encode(w *Writer) {
	w.WriteC(updateTypeValues)
	writePackedGUID(w, e.GUID)
	e.Mask.encode(w)
}

// writePackedGUID writes a guid with its zero bytes elided: one mask byte
// with a bit per present byte, then the non-zero bytes low to high.
func writePackedGUID(w *Writer, guid uint64) {
	var mask byte
	var bytes []byte
	for i := 0; i < 8; i++ {
		b := byte(guid >> (8 * uint(i)))
		if b != 0 {
			mask |= 1 << uint(i)
			bytes = append(bytes, b)
		}
	}
	w.WriteC(mask)
	w.WriteBytes(bytes)
}
