// Legacy generation 2 cipher.
//
// The keystream is a 256 byte table generated from the session key with a
// multiplicative feedback pass. Every frame is XORed against the table from
// offset zero, so the cipher carries no state between frames and a dropped
// frame cannot desynchronize the stream. This is the variant negotiated by
// the 2.17 release line.
package encryption

type gen2Cipher struct {
	table [256]byte
}

func newGen2Cipher(key byte) *gen2Cipher {
	c := &gen2Cipher{}
	c.Reset(key)
	return c
}

func (c *gen2Cipher) Generation() Generation {
	return Gen2
}

func (c *gen2Cipher) Reset(key byte) {
	// Spread the key byte over the table with the same multiplier the
	// rotating cipher uses so a key of zero still yields a usable stream.
	state := uint32(key) | uint32(key)<<8 | uint32(key)<<16 | uint32(key)<<24
	state |= 1
	for i := range c.table {
		state = state*gen5Multiplier + uint32(key) + 1
		c.table[i] = byte(state >> 24)
	}
}

func (c *gen2Cipher) Apply(data []byte) {
	for i := range data {
		data[i] ^= c.table[i&0xff]
	}
}
