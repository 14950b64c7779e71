package proto

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteC(0xAB)
	w.WriteH(0x1234)
	w.WriteD(0xDEADBEEF)
	w.WriteQ(0x1122334455667788)
	w.WriteF(3.5)
	w.WriteS("Thrall")

	r := NewReader(w.Bytes())
	if got := r.ReadC(); got != 0xAB {
		t.Errorf("ReadC = %#x", got)
	}
	if got := r.ReadH(); got != 0x1234 {
		t.Errorf("ReadH = %#x", got)
	}
	if got := r.ReadD(); got != 0xDEADBEEF {
		t.Errorf("ReadD = %#x", got)
	}
	if got := r.ReadQ(); got != 0x1122334455667788 {
		t.Errorf("ReadQ = %#x", got)
	}
	if got := r.ReadF(); got != 3.5 {
		t.Errorf("ReadF = %v", got)
	}
	if got := r.ReadS(); got != "Thrall" {
		t.Errorf("ReadS = %q", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01})
	if got := r.ReadD(); got != 0 {
		t.Errorf("truncated ReadD = %#x, want 0", got)
	}
	if got := r.ReadS(); got != "" {
		t.Errorf("truncated ReadS = %q, want empty", got)
	}
	if got := r.ReadQ(); got != 0 {
		t.Errorf("truncated ReadQ = %#x, want 0", got)
	}
}

func TestPackedGUID(t *testing.T) {
	tests := []struct {
		guid uint64
		want []byte
	}{
		{0x01, []byte{0x01, 0x01}},
		{0x0102, []byte{0x03, 0x02, 0x01}},
		{0xF130000000000007, []byte{0x81, 0x07, 0xF1}},
		{0x00, []byte{0x00}},
	}
	for _, tt := range tests {
		w := NewWriter()
		writePackedGUID(w, tt.guid)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("writePackedGUID(%#x) = % x, want % x", tt.guid, w.Bytes(), tt.want)
		}
	}
}

func TestUpdateMaskEncode(t *testing.T) {
	m := NewUpdateMask()
	m.SetUint32(FieldType, TypeMaskObject|TypeMaskUnit)
	m.SetUint64(FieldGUID, 0x0000000100000002)
	m.SetUint32(FieldLevel, 60)

	w := NewWriter()
	m.encode(w)
	r := NewReader(w.Bytes())

	// Highest index is 34, so two mask blocks.
	if blocks := r.ReadC(); blocks != 2 {
		t.Fatalf("blocks = %d, want 2", blocks)
	}
	mask0 := r.ReadD()
	mask1 := r.ReadD()
	if mask0 != 0b111 { // indices 0, 1, 2
		t.Errorf("mask0 = %#b, want 0b111", mask0)
	}
	if mask1 != 1<<(34-32) {
		t.Errorf("mask1 = %#b, want bit 2", mask1)
	}

	// Values follow in ascending index order.
	if got := r.ReadD(); got != 2 { // guid low
		t.Errorf("guid low = %d", got)
	}
	if got := r.ReadD(); got != 1 { // guid high
		t.Errorf("guid high = %d", got)
	}
	if got := r.ReadD(); got != (TypeMaskObject | TypeMaskUnit) {
		t.Errorf("type = %#x", got)
	}
	if got := r.ReadD(); got != 60 {
		t.Errorf("level = %d", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestEncodeServerFrame(t *testing.T) {
	frame := EncodeServer(&Pong{Sequence: 7})

	size := binary.BigEndian.Uint16(frame[0:2])
	if int(size) != len(frame)-2 {
		t.Errorf("size = %d, want %d", size, len(frame)-2)
	}
	op := binary.LittleEndian.Uint16(frame[2:4])
	if ServerOpcode(op) != SMSG_PONG {
		t.Errorf("opcode = %#x, want SMSG_PONG", op)
	}
	if got := binary.LittleEndian.Uint32(frame[4:8]); got != 7 {
		t.Errorf("sequence = %d, want 7", got)
	}
}

func TestReadClientFrame(t *testing.T) {
	// CMSG_PING with sequence 3, latency 55.
	body := make([]byte, 8)
	binary.LittleEndian.PutUint32(body[0:4], 3)
	binary.LittleEndian.PutUint32(body[4:8], 55)

	var buf bytes.Buffer
	var header [6]byte
	binary.BigEndian.PutUint16(header[0:2], uint16(4+len(body)))
	binary.LittleEndian.PutUint32(header[2:6], uint32(CMSG_PING))
	buf.Write(header[:])
	buf.Write(body)

	op, got, err := ReadClientFrame(&buf, nil)
	if err != nil {
		t.Fatalf("ReadClientFrame: %v", err)
	}
	if op != CMSG_PING {
		t.Errorf("opcode = %s, want CMSG_PING", op)
	}

	msg, ok := DecodeClient(op, got).(*Ping)
	if !ok {
		t.Fatalf("DecodeClient = %T, want *Ping", DecodeClient(op, got))
	}
	if msg.Sequence != 3 || msg.Latency != 55 {
		t.Errorf("ping = %+v", msg)
	}
}

func TestReadClientFrameRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	var header [6]byte
	binary.BigEndian.PutUint16(header[0:2], maxClientFrame+1)
	binary.LittleEndian.PutUint32(header[2:6], uint32(CMSG_PING))
	buf.Write(header[:])

	if _, _, err := ReadClientFrame(&buf, nil); err == nil {
		t.Fatal("oversize frame should be rejected")
	}
}

func TestMovementInfoRoundTrip(t *testing.T) {
	info := MovementInfo{
		Flags:       MoveFlagForward,
		Timestamp:   123456,
		Position:    Vector3{X: -8949.95, Y: -132.493, Z: 83.5312},
		Orientation: 1.5,
		FallTime:    0,
	}
	w := NewWriter()
	writeMovementInfo(w, info)
	got := readMovementInfo(NewReader(w.Bytes()))
	if got != info {
		t.Errorf("round trip = %+v, want %+v", got, info)
	}
}

func TestDecodeClientChat(t *testing.T) {
	w := NewWriter()
	w.WriteD(ChatTypeWhisper)
	w.WriteD(0) // language
	w.WriteS("Arthas")
	w.WriteS("hello there")

	msg, ok := DecodeClient(CMSG_MESSAGECHAT, w.Bytes()).(*MessageChat)
	if !ok {
		t.Fatal("expected *MessageChat")
	}
	if msg.ChatType != ChatTypeWhisper || msg.Target != "Arthas" || msg.Message != "hello there" {
		t.Errorf("chat = %+v", msg)
	}
}

func TestMovementOpcodeDecode(t *testing.T) {
	if !IsMovement(MSG_MOVE_START_FORWARD) {
		t.Fatal("MSG_MOVE_START_FORWARD should be movement")
	}
	if IsMovement(CMSG_PING) {
		t.Fatal("CMSG_PING is not movement")
	}

	w := NewWriter()
	writeMovementInfo(w, MovementInfo{Position: Vector3{X: 1, Y: 2, Z: 3}})
	msg, ok := DecodeClient(MSG_MOVE_START_FORWARD, w.Bytes()).(*Move)
	if !ok {
		t.Fatal("expected *Move")
	}
	if msg.Op != MSG_MOVE_START_FORWARD || msg.Info.Position.X != 1 {
		t.Errorf("move = %+v", msg)
	}
}

func TestDecodeClientTeleports(t *testing.T) {
	w := NewWriter()
	w.WriteD(12345) // client time
	w.WriteD(1)
	writeVector3(w, Vector3{X: 10, Y: 20, Z: 30})
	w.WriteF(1.5)
	wt, ok := DecodeClient(CMSG_WORLD_TELEPORT, w.Bytes()).(*WorldTeleport)
	if !ok {
		t.Fatal("expected *WorldTeleport")
	}
	if wt.Map != 1 || wt.Position.X != 10 || wt.Orientation != 1.5 {
		t.Errorf("teleport = %+v", wt)
	}

	w = NewWriter()
	w.WriteS("Thrall")
	tu, ok := DecodeClient(CMSG_TELEPORT_TO_UNIT, w.Bytes()).(*TeleportToUnit)
	if !ok {
		t.Fatal("expected *TeleportToUnit")
	}
	if tu.Name != "Thrall" {
		t.Errorf("name = %q, want Thrall", tu.Name)
	}
}
