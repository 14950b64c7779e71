package srp

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"math/big"
	"strings"
	"testing"
)

// clientExchange runs the client half of the SRP6 exchange the way the 1.12
// client does, returning A, M1, and the derived session key.
func clientExchange(t *testing.T, username, password string, salt [SaltSize]byte, serverPublic [PublicSize]byte) ([PublicSize]byte, [ProofSize]byte, [KeySize]byte) {
	t.Helper()

	secretBytes := make([]byte, 19)
	if _, err := rand.Read(secretBytes); err != nil {
		t.Fatalf("client secret: %v", err)
	}
	a := new(big.Int).SetBytes(secretBytes)
	aPub := new(big.Int).Exp(generator, a, prime)

	var clientPublic [PublicSize]byte
	copy(clientPublic[:], toLE(aPub, PublicSize))

	// u = SHA1(A || B)
	h := sha1.New()
	h.Write(clientPublic[:])
	h.Write(serverPublic[:])
	u := fromLE(h.Sum(nil))

	// x = SHA1(salt || SHA1(USER:PASS))
	ident := sha1.Sum([]byte(strings.ToUpper(username) + ":" + strings.ToUpper(password)))
	h = sha1.New()
	h.Write(salt[:])
	h.Write(ident[:])
	x := fromLE(h.Sum(nil))

	// S = (B - k*g^x)^(a + u*x) mod N
	gx := new(big.Int).Exp(generator, x, prime)
	kgx := new(big.Int).Mul(kMult, gx)
	base := new(big.Int).Mod(new(big.Int).Sub(fromLE(serverPublic[:]), kgx), prime)
	exp := new(big.Int).Add(a, new(big.Int).Mul(u, x))
	session := new(big.Int).Exp(base, exp, prime)

	key := interleave(toLE(session, 32))
	m1 := calculateM1(strings.ToUpper(username), salt, clientPublic, serverPublic, key)
	return clientPublic, m1, key
}

func TestVerifierIsCaseInsensitive(t *testing.T) {
	var salt [SaltSize]byte
	copy(salt[:], bytes.Repeat([]byte{0x5A}, SaltSize))

	a := CalculateVerifier("thrall", "warchief", salt)
	b := CalculateVerifier("THRALL", "WARCHIEF", salt)
	if a != b {
		t.Error("verifier should not depend on credential case")
	}

	c := CalculateVerifier("thrall", "wrong", salt)
	if a == c {
		t.Error("different passwords produced the same verifier")
	}
}

func TestFullExchange(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	verifier := CalculateVerifier("jaina", "proudmoore", salt)

	srv, err := NewServer("jaina", salt, verifier)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	clientPublic, m1, clientKey := clientExchange(t, "jaina", "proudmoore", salt, srv.PublicKey())

	m2, serverKey, err := srv.Verify(clientPublic, m1)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if serverKey != clientKey {
		t.Fatal("client and server derived different session keys")
	}

	// M2 = SHA1(A || M1 || K)
	h := sha1.New()
	h.Write(clientPublic[:])
	h.Write(m1[:])
	h.Write(clientKey[:])
	var want [ProofSize]byte
	copy(want[:], h.Sum(nil))
	if m2 != want {
		t.Error("server proof does not match the client's expectation")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	verifier := CalculateVerifier("jaina", "proudmoore", salt)

	srv, err := NewServer("jaina", salt, verifier)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	clientPublic, m1, _ := clientExchange(t, "jaina", "guessed", salt, srv.PublicKey())
	if _, _, err := srv.Verify(clientPublic, m1); err == nil {
		t.Fatal("wrong password should fail verification")
	}
}

func TestVerifyRejectsZeroPublicKey(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	verifier := CalculateVerifier("jaina", "proudmoore", salt)
	srv, err := NewServer("jaina", salt, verifier)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	var zero [PublicSize]byte
	var proof [ProofSize]byte
	if _, _, err := srv.Verify(zero, proof); err == nil {
		t.Fatal("A = 0 must be rejected before any proof check")
	}
}

func TestWorldProof(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	clientSeed := uint32(0xCAFEBABE)
	serverSeed := uint32(0x1337)

	h := sha1.New()
	h.Write([]byte("JAINA"))
	var buf [4]byte
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], clientSeed)
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], serverSeed)
	h.Write(buf[:])
	h.Write(key[:])
	var proof [ProofSize]byte
	copy(proof[:], h.Sum(nil))

	// Account case must not matter.
	if !VerifyWorldProof("jaina", proof, clientSeed, serverSeed, key) {
		t.Error("valid world proof rejected")
	}
	if VerifyWorldProof("jaina", proof, clientSeed+1, serverSeed, key) {
		t.Error("proof with wrong client seed accepted")
	}
}

func TestHeaderCipherRoundTrip(t *testing.T) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("key: %v", err)
	}
	enc, _ := NewHeaderCipher(key).Split()
	_, dec := NewHeaderCipher(key).Split()

	// State rolls across frames, so several headers must survive in order.
	frames := [][]byte{
		{0x00, 0x08, 0xA9, 0x00},
		{0x00, 0x04, 0xDD, 0x01},
		{0x12, 0x34, 0x56, 0x78},
	}
	for _, frame := range frames {
		orig := append([]byte(nil), frame...)
		enc.Encrypt(frame)
		if bytes.Equal(frame, orig) {
			t.Error("encryption left the header unchanged")
		}
		dec.Decrypt(frame)
		if !bytes.Equal(frame, orig) {
			t.Errorf("round trip = % x, want % x", frame, orig)
		}
	}
}

func TestHeaderCipherDirectionsIndependent(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i * 7)
	}
	enc, dec := NewHeaderCipher(key).Split()

	// Advance only the encrypter.
	enc.Encrypt([]byte{1, 2, 3, 4})

	// The decrypter must still be at stream position zero: it has to invert
	// what a fresh peer encrypter produces.
	peer, _ := NewHeaderCipher(key).Split()
	frame := []byte{0x00, 0x08, 0xB5, 0x00, 0x00, 0x00}
	orig := append([]byte(nil), frame...)
	peer.Encrypt(frame)
	dec.Decrypt(frame)
	if !bytes.Equal(frame, orig) {
		t.Errorf("decrypter state advanced with the encrypter: got % x, want % x", frame, orig)
	}
}
