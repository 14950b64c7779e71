package proto

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frame layout:
//
//	client: [2B size BE][4B opcode LE][body]   size counts opcode+body
//	server: [2B size BE][2B opcode LE][body]   size counts opcode+body
//
// Only the header bytes are ever ciphered; bodies go over the wire in the
// clear.

const (
	clientHeaderSize = 6
	serverHeaderSize = 4

	// maxClientFrame bounds the body a client may send. Anything bigger is a
	// broken or hostile peer.
	maxClientFrame = 0x4000
)

// ReadClientFrame reads one client frame. decrypt, when non-nil, is applied
// to the header bytes in place before they are parsed.
func ReadClientFrame(r io.Reader, decrypt func([]byte)) (ClientOpcode, []byte, error) {
	var header [clientHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	if decrypt != nil {
		decrypt(header[:])
	}
	size := binary.BigEndian.Uint16(header[0:2])
	op := ClientOpcode(binary.LittleEndian.Uint32(header[2:6]))
	if size < 4 {
		return 0, nil, fmt.Errorf("client frame size %d below opcode width", size)
	}
	if size > maxClientFrame {
		return 0, nil, fmt.Errorf("client frame size %d exceeds limit", size)
	}
	body := make([]byte, size-4)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return op, body, nil
}

// EncodeServer frames a server message. The returned buffer has a plaintext
// header; the write loop ciphers the first 4 bytes just before the frame
// goes out.
func EncodeServer(msg ServerMessage) []byte {
	w := NewWriter()
	w.WriteC(0)
	w.WriteC(0)
	w.WriteH(uint16(msg.ServerOp()))
	msg.Encode(w)
	frame := w.Bytes()
	binary.BigEndian.PutUint16(frame[0:2], uint16(len(frame)-2))
	return frame
}
