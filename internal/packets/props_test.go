package packets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
)

func TestProps_RoundTrip(t *testing.T) {
	props := []Prop{
		{ID: PropNickname, Str: "tester"},
		{ID: PropMaxPower, Int: 6},
		{ID: PropCurPower, Int: 5},
		{ID: PropPlayerID, Int: 1234},
		{ID: PropX, Int: 20},
		{ID: PropY, Int: 31},
		{ID: PropLevel, Str: "town.nw"},
	}

	w := bytes.NewWriter()
	EncodeProps(w, props)

	decoded, tail := DecodeProps(bytes.NewReader(w.Bytes()))
	if len(tail) != 0 {
		t.Fatalf("decoding left a %d byte tail", len(tail))
	}
	if diff := cmp.Diff(props, decoded); diff != "" {
		t.Errorf("property mismatch; diff:\n%s", diff)
	}
}

func TestProps_SignedPixelCoordinates(t *testing.T) {
	tests := []struct {
		pixels int
	}{
		{0},
		{504},
		{-160},
		{8000},
	}

	for _, tt := range tests {
		w := bytes.NewWriter()
		EncodeProps(w, []Prop{{ID: PropX2, Int: tt.pixels}})

		decoded, _ := DecodeProps(bytes.NewReader(w.Bytes()))
		if len(decoded) != 1 || decoded[0].Int != tt.pixels {
			t.Errorf("pixel value %d round-tripped as %+v", tt.pixels, decoded)
		}
	}
}

func TestProps_ColorsWidth(t *testing.T) {
	// Colors occupy five bytes; a property after them must still decode.
	w := bytes.NewWriter()
	EncodeProps(w, []Prop{
		{ID: PropColors, Int: 0x0102030405},
		{ID: PropRupees, Int: 30},
	})

	decoded, tail := DecodeProps(bytes.NewReader(w.Bytes()))
	if len(tail) != 0 {
		t.Fatalf("decoding left a %d byte tail", len(tail))
	}
	if len(decoded) != 2 || decoded[0].Int != 0x0102030405 || decoded[1].Int != 30 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestProps_UnknownIDStopsDecoding(t *testing.T) {
	w := bytes.NewWriter()
	EncodeProps(w, []Prop{{ID: PropRupees, Int: 7}})
	// An id with no known width, followed by bytes that must come back raw.
	w.WriteGChar(60)
	w.WriteBytes([]byte{0xDE, 0xAD})

	decoded, tail := DecodeProps(bytes.NewReader(w.Bytes()))
	if len(decoded) != 1 || decoded[0].ID != PropRupees {
		t.Fatalf("decoded = %+v, want just the rupee prop", decoded)
	}
	if diff := cmp.Diff([]byte{0xDE, 0xAD}, tail); diff != "" {
		t.Errorf("tail mismatch; diff:\n%s", diff)
	}
}
