// Package bytes implements the low level byte encoding used by the Reborn
// wire protocol.
//
// All numeric fields on the wire are "biased": values are split into 7-bit
// groups and each group is offset by 32 so that encoded bytes stay out of
// the control character range. Text fields are Windows-1252, not UTF-8.
package bytes

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Bias applied to every encoded byte on the wire.
const Bias = 32

// EncodeGChar encodes a value in the range [0, 223] as a single biased byte.
func EncodeGChar(v uint8) byte {
	return v + Bias
}

// DecodeGChar reverses EncodeGChar. Values wrap modulo 256, matching the
// server's arithmetic.
func DecodeGChar(b byte) uint8 {
	return b - Bias
}

// EncodeGShort encodes a value in the range [0, 16384) as two biased bytes,
// seven bits per byte, most significant group first.
func EncodeGShort(v uint16) [2]byte {
	return [2]byte{byte(v>>7) + Bias, byte(v&0x7f) + Bias}
}

// DecodeGShort reverses EncodeGShort.
func DecodeGShort(b [2]byte) uint16 {
	return uint16(b[0]-Bias)<<7 | uint16(b[1]-Bias)&0x7f
}

// EncodeGInt5 encodes a value as five biased bytes, seven bits per byte,
// most significant group first. Five groups cover the full uint32 range,
// which is what the protocol uses for file sizes and mod times.
func EncodeGInt5(v uint32) [5]byte {
	var out [5]byte
	for i := 4; i >= 0; i-- {
		out[i] = byte(v&0x7f) + Bias
		v >>= 7
	}
	return out
}

// DecodeGInt5 reverses EncodeGInt5.
func DecodeGInt5(b [5]byte) uint32 {
	var v uint32
	for i := 0; i < 5; i++ {
		v = v<<7 | uint32(b[i]-Bias)&0x7f
	}
	return v
}

// EncodeText converts a UTF-8 string to the Windows-1252 bytes the server
// expects. Characters outside the codepage are replaced with '?'.
func EncodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// DecodeText converts Windows-1252 bytes from the wire into a UTF-8 string.
func DecodeText(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = charmap.Windows1252.DecodeByte(c)
	}
	return string(runes)
}

// StripPadding returns a slice of b without the trailing 0s.
func StripPadding(b []byte) []byte {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0 {
			return b[:i+1]
		}
	}
	return []byte{}
}

// Reader consumes biased fields from a packet body in sequence. Read methods
// saturate at the end of the buffer rather than panicking since packet
// payloads come straight off the network.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadRaw returns the next raw (unbiased) byte, or 0 past the end.
func (r *Reader) ReadRaw() byte {
	if r.pos >= len(r.data) {
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

// ReadGChar returns the next byte with the bias removed.
func (r *Reader) ReadGChar() uint8 {
	return DecodeGChar(r.ReadRaw())
}

// ReadGShort returns the next two bytes decoded as a biased short.
func (r *Reader) ReadGShort() uint16 {
	return DecodeGShort([2]byte{r.ReadRaw(), r.ReadRaw()})
}

// ReadGInt5 returns the next five bytes decoded as a biased 32-bit value.
func (r *Reader) ReadGInt5() uint32 {
	return DecodeGInt5([5]byte{r.ReadRaw(), r.ReadRaw(), r.ReadRaw(), r.ReadRaw(), r.ReadRaw()})
}

// ReadBytes returns the next n raw bytes, truncated at the end of the buffer.
func (r *Reader) ReadBytes(n int) []byte {
	if n < 0 {
		return nil
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadGString reads a string prefixed with its biased single-byte length.
func (r *Reader) ReadGString() string {
	n := int(r.ReadGChar())
	return DecodeText(r.ReadBytes(n))
}

// ReadRemaining returns everything left in the buffer decoded as text.
func (r *Reader) ReadRemaining() string {
	return DecodeText(r.ReadBytes(r.Remaining()))
}

// ReadRemainingBytes returns everything left in the buffer untouched.
func (r *Reader) ReadRemainingBytes() []byte {
	return r.ReadBytes(r.Remaining())
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) {
	r.ReadBytes(n)
}

// Writer builds a packet body out of biased fields.
type Writer struct {
	data []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Bytes() []byte {
	return w.data
}

func (w *Writer) WriteRaw(b byte) {
	w.data = append(w.data, b)
}

func (w *Writer) WriteGChar(v uint8) {
	w.data = append(w.data, EncodeGChar(v))
}

func (w *Writer) WriteGShort(v uint16) {
	b := EncodeGShort(v)
	w.data = append(w.data, b[:]...)
}

func (w *Writer) WriteGInt5(v uint32) {
	b := EncodeGInt5(v)
	w.data = append(w.data, b[:]...)
}

func (w *Writer) WriteBytes(b []byte) {
	w.data = append(w.data, b...)
}

// WriteGString writes a string prefixed with its biased single-byte length.
// Strings longer than 223 bytes cannot be represented and are truncated.
func (w *Writer) WriteGString(s string) {
	encoded := EncodeText(s)
	if len(encoded) > 223 {
		encoded = encoded[:223]
	}
	w.WriteGChar(uint8(len(encoded)))
	w.WriteBytes(encoded)
}

// WriteText writes a string without a length prefix.
func (w *Writer) WriteText(s string) {
	w.WriteBytes(EncodeText(s))
}

// GShortMax is the largest value representable by a two byte biased short.
const GShortMax = 0x3FFF

// CheckGShortRange returns an error if v cannot be encoded as a biased short.
func CheckGShortRange(v int) error {
	if v < 0 || v > GShortMax {
		return fmt.Errorf("value %d out of range for biased short", v)
	}
	return nil
}
