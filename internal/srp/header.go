package srp

// HeaderCipher is the drop-less RC4-like stream the 1.12 world protocol runs
// over frame headers once a session key is proven. Encryption and decryption
// each keep their own rolling state, so the cipher is split into independent
// halves before being handed to the read and write loops.
type HeaderCipher struct {
	key [KeySize]byte
}

func NewHeaderCipher(key [KeySize]byte) *HeaderCipher {
	return &HeaderCipher{key: key}
}

// Split returns the two directional halves. Call it once per session.
func (c *HeaderCipher) Split() (*Encrypter, *Decrypter) {
	return &Encrypter{key: c.key}, &Decrypter{key: c.key}
}

// Encrypter ciphers outgoing server header bytes in place.
type Encrypter struct {
	key  [KeySize]byte
	idx  int
	last byte
}

func (e *Encrypter) Encrypt(data []byte) {
	for i := range data {
		x := (data[i] ^ e.key[e.idx]) + e.last
		e.idx = (e.idx + 1) % len(e.key)
		e.last = x
		data[i] = x
	}
}

// Decrypter deciphers incoming client header bytes in place.
type Decrypter struct {
	key  [KeySize]byte
	idx  int
	last byte
}

func (d *Decrypter) Decrypt(data []byte) {
	for i := range data {
		c := data[i]
		x := (c - d.last) ^ d.key[d.idx]
		d.idx = (d.idx + 1) % len(d.key)
		d.last = c
		data[i] = x
	}
}
