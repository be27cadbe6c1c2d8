package protocol

import (
	"encoding/binary"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// MaxFrameBody is the sanity bound on a frame's declared body length.
// Anything larger than this is a corrupt or desynchronized stream, not a
// legitimate packet; bulk data bigger than a frame moves through the
// file transfer sub-protocol instead.
const MaxFrameBody = 0x7FF0

// frameHeaderSize covers the two byte length prefix plus the opcode byte.
const frameHeaderSize = 3

// frameOpcodeBias offsets the opcode byte on the wire.
const frameOpcodeBias = 32

// RawPacket is exactly one framed, decrypted protocol message: the debiased
// opcode and its body. Body is the packet's own storage and is safe to retain.
type RawPacket struct {
	ID   packets.ID
	Body []byte
}

// Framer converts the inbound byte stream into discrete RawPackets. Bytes
// are appended with Feed in whatever chunks the transport produced; Next
// yields complete frames and leaves partial ones buffered. Splitting the
// stream at arbitrary boundaries never changes the packets produced.
//
// Wire format per frame: a cleartext big-endian uint16 body length, then an
// enciphered opcode byte (id + 32) and body. A declared length of zero is a
// valid frame carrying an opcode with no body.
//
// The decrypt hook is applied to the opcode and body of each frame exactly
// once, only after the whole frame has arrived. Rotating cipher state must
// never see partial ciphertext, so decryption cannot happen any earlier in
// the pipeline.
type Framer struct {
	buf     []byte
	decrypt func([]byte)
}

// NewFramer returns a framer that decrypts each complete frame with the
// given hook. A nil hook leaves frames untouched (cleartext streams).
func NewFramer(decrypt func([]byte)) *Framer {
	return &Framer{decrypt: decrypt}
}

// Feed appends received bytes to the buffer.
func (f *Framer) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Buffered returns the number of bytes awaiting framing.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// Next extracts the next complete frame, or returns nil when the buffer
// holds only a partial frame. A FramingError means the stream can no longer
// be trusted and the connection must be torn down.
func (f *Framer) Next() (*RawPacket, error) {
	if len(f.buf) < 2 {
		return nil, nil
	}

	bodyLen := int(binary.BigEndian.Uint16(f.buf))
	if bodyLen > MaxFrameBody {
		return nil, &FramingError{DeclaredLength: bodyLen}
	}

	if len(f.buf) < frameHeaderSize+bodyLen {
		return nil, nil
	}

	frame := make([]byte, 1+bodyLen)
	copy(frame, f.buf[2:frameHeaderSize+bodyLen])
	f.buf = f.buf[frameHeaderSize+bodyLen:]

	if f.decrypt != nil {
		f.decrypt(frame)
	}

	return &RawPacket{
		ID:   packets.ID(frame[0] - frameOpcodeBias),
		Body: frame[1:],
	}, nil
}

// Reset discards all buffered bytes. Called on disconnect so no partial
// frame state leaks across a reconnect.
func (f *Framer) Reset() {
	f.buf = nil
}

// EncodeFrame builds the wire representation of one outbound packet:
// cleartext length prefix, biased opcode, body. Encryption of the opcode
// and body happens after framing, against the outbound cipher.
func EncodeFrame(id packets.ID, body []byte) []byte {
	frame := make([]byte, frameHeaderSize+len(body))
	binary.BigEndian.PutUint16(frame, uint16(len(body)))
	frame[2] = byte(id) + frameOpcodeBias
	copy(frame[frameHeaderSize:], body)
	return frame
}
