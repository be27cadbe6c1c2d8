package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

func TestFramer_SplitInvariance(t *testing.T) {
	frames := [][]byte{
		EncodeFrame(packets.PLOSignature, []byte("server signature")),
		EncodeFrame(packets.PLOToAll, []byte("a longer chat line to straddle chunks")),
		EncodeFrame(packets.PLONewWorldTime, nil),
		EncodeFrame(packets.PLOLevelName, []byte("onlinestartlocal.nw")),
	}

	var stream []byte
	for _, f := range frames {
		stream = append(stream, f...)
	}

	// Feed the same byte stream chunked at every granularity, including
	// one byte at a time. The extracted packets must be identical.
	for _, chunkSize := range []int{1, 2, 3, 5, 7, len(stream)} {
		f := NewFramer(nil)
		var got []*RawPacket

		for off := 0; off < len(stream); off += chunkSize {
			end := off + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			f.Feed(stream[off:end])

			for {
				pkt, err := f.Next()
				if err != nil {
					t.Fatalf("chunk size %d: unexpected framing error: %v", chunkSize, err)
				}
				if pkt == nil {
					break
				}
				got = append(got, pkt)
			}
		}

		if len(got) != len(frames) {
			t.Fatalf("chunk size %d: extracted %d packets, want %d", chunkSize, len(got), len(frames))
		}

		want := []*RawPacket{
			{ID: packets.PLOSignature, Body: []byte("server signature")},
			{ID: packets.PLOToAll, Body: []byte("a longer chat line to straddle chunks")},
			{ID: packets.PLONewWorldTime, Body: []byte{}},
			{ID: packets.PLOLevelName, Body: []byte("onlinestartlocal.nw")},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("chunk size %d: packet mismatch; diff:\n%s", chunkSize, diff)
		}
	}
}

func TestFramer_ZeroLengthBody(t *testing.T) {
	f := NewFramer(nil)
	f.Feed(EncodeFrame(packets.PLODiscMessage, nil))

	pkt, err := f.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt == nil {
		t.Fatal("expected a packet from a zero-length frame")
	}
	if pkt.ID != packets.PLODiscMessage || len(pkt.Body) != 0 {
		t.Errorf("got id=%d body=%d bytes, want id=%d with empty body",
			pkt.ID, len(pkt.Body), packets.PLODiscMessage)
	}
}

func TestFramer_OversizeFrame(t *testing.T) {
	f := NewFramer(nil)
	// Declared length beyond the protocol ceiling. The framer must refuse
	// before waiting for the body to arrive.
	f.Feed([]byte{0xFF, 0xFF})

	_, err := f.Next()
	var framingErr *FramingError
	if !errors.As(err, &framingErr) {
		t.Fatalf("expected a FramingError, got %v", err)
	}
	if framingErr.DeclaredLength != 0xFFFF {
		t.Errorf("DeclaredLength = %d, want %d", framingErr.DeclaredLength, 0xFFFF)
	}
}

func TestFramer_DecryptHook(t *testing.T) {
	// XOR with a fixed byte stands in for the cipher; the hook must see the
	// opcode and body exactly once, and never the length prefix.
	mask := byte(0x5A)
	frame := EncodeFrame(packets.PLOServerText, []byte("hello"))
	for i := 2; i < len(frame); i++ {
		frame[i] ^= mask
	}

	calls := 0
	f := NewFramer(func(b []byte) {
		calls++
		for i := range b {
			b[i] ^= mask
		}
	})

	f.Feed(frame[:1])
	if pkt, err := f.Next(); pkt != nil || err != nil {
		t.Fatalf("partial frame yielded pkt=%v err=%v", pkt, err)
	}
	f.Feed(frame[1:])

	pkt, err := f.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("decrypt hook ran %d times, want exactly once per frame", calls)
	}
	if pkt.ID != packets.PLOServerText || string(pkt.Body) != "hello" {
		t.Errorf("got id=%d body=%q, want id=%d body=%q",
			pkt.ID, pkt.Body, packets.PLOServerText, "hello")
	}
}

func TestFramer_Reset(t *testing.T) {
	f := NewFramer(nil)
	f.Feed([]byte{0x00, 0x10, 0x20})
	if f.Buffered() == 0 {
		t.Fatal("expected buffered bytes before Reset")
	}

	f.Reset()
	if f.Buffered() != 0 {
		t.Errorf("Buffered() = %d after Reset, want 0", f.Buffered())
	}
	if pkt, err := f.Next(); pkt != nil || err != nil {
		t.Errorf("Next() after Reset = (%v, %v), want (nil, nil)", pkt, err)
	}
}
