// Package srp implements the SRP6 variant used by the 1.12 login protocol:
// SHA-1 hashing, a 256-bit safe prime, g=7, k=3, and little-endian byte
// order for every big-number conversion.
package srp

import (
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	"math/big"
	"strings"
)

const (
	// KeySize is the session key length: two interleaved SHA-1 digests.
	KeySize = 40

	SaltSize     = 32
	VerifierSize = 32
	PublicSize   = 32
	ProofSize    = sha1.Size
)

var (
	prime     = mustParseLE("894B645E89E1535BBDAD5B8B290650530801B18EBFBF5E8FAB3C82872A3E9BB7")
	generator = big.NewInt(7)
	kMult     = big.NewInt(3)
)

func mustParseLE(hexBE string) *big.Int {
	n, ok := new(big.Int).SetString(hexBE, 16)
	if !ok {
		panic("srp: bad prime literal")
	}
	return n
}

// toLE converts n to exactly size little-endian bytes.
func toLE(n *big.Int, size int) []byte {
	be := n.Bytes()
	out := make([]byte, size)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// fromLE interprets little-endian bytes as a big number.
func fromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// CalculateVerifier derives the salt-bound password verifier for an account:
// v = g^SHA1(salt || SHA1(USERNAME:PASSWORD)) mod N. Username and password
// are uppercased the way the client does before hashing.
func CalculateVerifier(username, password string, salt [SaltSize]byte) [VerifierSize]byte {
	ident := sha1.Sum([]byte(strings.ToUpper(username) + ":" + strings.ToUpper(password)))

	h := sha1.New()
	h.Write(salt[:])
	h.Write(ident[:])
	x := fromLE(h.Sum(nil))

	v := new(big.Int).Exp(generator, x, prime)
	var out [VerifierSize]byte
	copy(out[:], toLE(v, VerifierSize))
	return out
}

// NewSalt returns a fresh random salt.
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Server runs the server side of one SRP6 exchange.
type Server struct {
	username string
	salt     [SaltSize]byte
	verifier *big.Int
	secret   *big.Int
	public   *big.Int
}

// NewServer starts an exchange for the given account credentials.
func NewServer(username string, salt [SaltSize]byte, verifier [VerifierSize]byte) (*Server, error) {
	secretBytes := make([]byte, 19)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate server secret: %w", err)
	}
	s := &Server{
		username: strings.ToUpper(username),
		salt:     salt,
		verifier: fromLE(verifier[:]),
		secret:   new(big.Int).SetBytes(secretBytes),
	}

	// B = (k*v + g^b) mod N
	gb := new(big.Int).Exp(generator, s.secret, prime)
	kv := new(big.Int).Mul(kMult, s.verifier)
	s.public = new(big.Int).Mod(new(big.Int).Add(kv, gb), prime)
	return s, nil
}

// Salt returns the account salt sent in the logon challenge.
func (s *Server) Salt() [SaltSize]byte { return s.salt }

// PublicKey returns B in wire form.
func (s *Server) PublicKey() [PublicSize]byte {
	var out [PublicSize]byte
	copy(out[:], toLE(s.public, PublicSize))
	return out
}

// Generator and Prime expose the group parameters for the logon challenge.
func (s *Server) Generator() byte { return byte(generator.Int64()) }

func (s *Server) Prime() [32]byte {
	var out [32]byte
	copy(out[:], toLE(prime, 32))
	return out
}

// Verify checks the client's proof M1 against A. On success it returns the
// server proof M2 and the 40-byte session key.
func (s *Server) Verify(clientPublic [PublicSize]byte, clientProof [ProofSize]byte) (serverProof [ProofSize]byte, key [KeySize]byte, err error) {
	a := fromLE(clientPublic[:])
	if new(big.Int).Mod(a, prime).Sign() == 0 {
		return serverProof, key, fmt.Errorf("client public key is zero mod N")
	}

	// u = SHA1(A || B)
	h := sha1.New()
	h.Write(clientPublic[:])
	b := s.PublicKey()
	h.Write(b[:])
	u := fromLE(h.Sum(nil))

	// S = (A * v^u)^b mod N
	vu := new(big.Int).Exp(s.verifier, u, prime)
	base := new(big.Int).Mod(new(big.Int).Mul(a, vu), prime)
	session := new(big.Int).Exp(base, s.secret, prime)
	key = interleave(toLE(session, 32))

	expected := calculateM1(s.username, s.salt, clientPublic, b, key)
	if expected != clientProof {
		return serverProof, key, fmt.Errorf("client proof mismatch for %s", s.username)
	}

	// M2 = SHA1(A || M1 || K)
	h = sha1.New()
	h.Write(clientPublic[:])
	h.Write(clientProof[:])
	h.Write(key[:])
	copy(serverProof[:], h.Sum(nil))
	return serverProof, key, nil
}

// interleave splits S into even and odd bytes, hashes each half, and weaves
// the digests back together into the 40-byte session key.
func interleave(s []byte) [KeySize]byte {
	half := len(s) / 2
	even := make([]byte, half)
	odd := make([]byte, half)
	for i := 0; i < half; i++ {
		even[i] = s[i*2]
		odd[i] = s[i*2+1]
	}
	he := sha1.Sum(even)
	ho := sha1.Sum(odd)

	var key [KeySize]byte
	for i := 0; i < sha1.Size; i++ {
		key[i*2] = he[i]
		key[i*2+1] = ho[i]
	}
	return key
}

func calculateM1(username string, salt [SaltSize]byte, a, b [PublicSize]byte, key [KeySize]byte) [ProofSize]byte {
	hn := sha1.Sum(toLE(prime, 32))
	hg := sha1.Sum(toLE(generator, 32))
	var hxor [sha1.Size]byte
	for i := range hxor {
		hxor[i] = hn[i] ^ hg[i]
	}
	hu := sha1.Sum([]byte(username))

	h := sha1.New()
	h.Write(hxor[:])
	h.Write(hu[:])
	h.Write(salt[:])
	h.Write(a[:])
	h.Write(b[:])
	h.Write(key[:])

	var m1 [ProofSize]byte
	copy(m1[:], h.Sum(nil))
	return m1
}
