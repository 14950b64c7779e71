package proto

// Movement flags carried in MovementInfo. Only the handful the server
// inspects are named; the rest pass through verbatim.
const (
	MoveFlagNone     uint32 = 0x00000000
	MoveFlagForward  uint32 = 0x00000001
	MoveFlagBackward uint32 = 0x00000002
	MoveFlagFalling  uint32 = 0x00002000
	MoveFlagSwimming uint32 = 0x00200000
)

// Vector3 is a point in world space.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// MovementInfo is the movement block shared by every movement opcode and by
// entity-creation replication. The server stores it verbatim as reported by
// the client and relays it unmodified.
type MovementInfo struct {
	Flags       uint32
	Timestamp   uint32
	Position    Vector3
	Orientation float32
	FallTime    float32
}

func readVector3(r *Reader) Vector3 {
	return Vector3{X: r.ReadF(), Y: r.ReadF(), Z: r.ReadF()}
}

func writeVector3(w *Writer, v Vector3) {
	w.WriteF(v.X)
	w.WriteF(v.Y)
	w.WriteF(v.Z)
}

func readMovementInfo(r *Reader) MovementInfo {
	return MovementInfo{
		Flags:       r.ReadD(),
		Timestamp:   r.ReadD(),
		Position:    readVector3(r),
		Orientation: r.ReadF(),
		FallTime:    r.ReadF(),
	}
}

func writeMovementInfo(w *Writer, info MovementInfo) {
	w.WriteD(info.Flags)
	w.WriteD(info.Timestamp)
	writeVector3(w, info.Position)
	w.WriteF(info.Orientation)
	w.WriteF(info.FallTime)
}
