// Rotating generation 5 cipher.
//
// A 32-bit iterator starts from a fixed constant and steps through a linear
// congruence for every byte processed: it = it*0x8088405 + key. The low
// byte of the iterator is the keystream. Because the iterator advances per
// byte, both ends must process identical byte counts in each direction;
// feeding the cipher a partial frame poisons every frame after it.
package encryption

const (
	gen5IteratorStart = 0x04A80B38
	gen5Multiplier    = 0x8088405
)

type gen5Cipher struct {
	key      uint32
	iterator uint32
}

func newGen5Cipher(key byte) *gen5Cipher {
	c := &gen5Cipher{}
	c.Reset(key)
	return c
}

func (c *gen5Cipher) Generation() Generation {
	return Gen5
}

func (c *gen5Cipher) Reset(key byte) {
	c.key = uint32(key)
	c.iterator = gen5IteratorStart
}

func (c *gen5Cipher) Apply(data []byte) {
	for i := range data {
		c.iterator = c.iterator*gen5Multiplier + c.key
		data[i] ^= byte(c.iterator)
	}
}
