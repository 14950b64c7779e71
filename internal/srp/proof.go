package srp

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"strings"
)

// NewProofSeed returns the random seed the world server embeds in its auth
// challenge.
func NewProofSeed() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("generate proof seed: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// VerifyWorldProof checks the CMSG_AUTH_SESSION proof:
// SHA1(USERNAME || 0u32 || clientSeed || serverSeed || K).
func VerifyWorldProof(username string, clientProof [ProofSize]byte, clientSeed, serverSeed uint32, key [KeySize]byte) bool {
	h := sha1.New()
	h.Write([]byte(strings.ToUpper(username)))

	var buf [4]byte
	h.Write(buf[:]) // zero u32
	binary.LittleEndian.PutUint32(buf[:], clientSeed)
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], serverSeed)
	h.Write(buf[:])
	h.Write(key[:])

	var expected [ProofSize]byte
	copy(expected[:], h.Sum(nil))
	return expected == clientProof
}
