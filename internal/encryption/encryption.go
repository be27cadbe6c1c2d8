// Package encryption implements the stream ciphers used by the Reborn
// protocol family.
//
// Two cipher generations are in circulation. Generation 2 clients use a
// fixed keystream derived from the session key; generation 5 clients use a
// rotating 32-bit iterator that advances once per byte processed. Each side
// of a connection keeps two independent cipher instances, one per direction,
// and the instances must process exactly the frames that cross the wire or
// the iterator state desynchronizes irrecoverably.
package encryption

import "fmt"

// Generation identifies a cipher algorithm variant.
type Generation int

const (
	// Gen2 is the legacy fixed-keystream cipher.
	Gen2 Generation = 2
	// Gen5 is the rotating iterator cipher.
	Gen5 Generation = 5
)

// Cipher transforms exactly one complete frame at a time, in place. Apply
// is symmetric: encrypting and decrypting are the same operation against
// matching cipher state.
type Cipher interface {
	// Generation returns the algorithm variant this cipher implements.
	Generation() Generation

	// Apply XORs data against the keystream in place, advancing any
	// rotating state by exactly len(data) positions.
	Apply(data []byte)

	// Reset restores the cipher to its initial state for the given key.
	Reset(key byte)
}

// NewCipher returns a cipher instance for the given generation, seeded
// with the session key.
func NewCipher(gen Generation, key byte) (Cipher, error) {
	switch gen {
	case Gen2:
		return newGen2Cipher(key), nil
	case Gen5:
		return newGen5Cipher(key), nil
	default:
		return nil, fmt.Errorf("unsupported cipher generation: %d", gen)
	}
}

// GenerationForVersion maps a client version string to the cipher
// generation its release line negotiates.
func GenerationForVersion(version string) (Generation, error) {
	switch version {
	case "2.17":
		return Gen2, nil
	case "2.19", "2.21", "2.22", "6.037":
		return Gen5, nil
	default:
		return 0, fmt.Errorf("unsupported client version: %s", version)
	}
}
