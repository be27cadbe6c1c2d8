package packets

import (
	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
)

// PropID identifies one field of a player property list. Property packets
// carry a sequence of (id, value) pairs whose value widths depend on the id,
// so decoding has to stop at the first id it does not know the width of.
type PropID uint8

const (
	PropNickname    PropID = 0
	PropMaxPower    PropID = 1
	PropCurPower    PropID = 2
	PropRupees      PropID = 3
	PropArrows      PropID = 4
	PropBombs       PropID = 5
	PropGlovePower  PropID = 6
	PropBombPower   PropID = 7
	PropSword       PropID = 8
	PropShield      PropID = 9
	PropGani        PropID = 10
	PropHead        PropID = 11
	PropCurChat     PropID = 12
	PropColors      PropID = 13
	PropPlayerID    PropID = 14
	PropX           PropID = 15
	PropY           PropID = 16
	PropSprite      PropID = 17
	PropStatus      PropID = 18
	PropCarrySprite PropID = 19
	PropLevel       PropID = 20
	PropHorse       PropID = 21
	PropAccount     PropID = 34
	PropX2          PropID = 78
	PropY2          PropID = 79
)

// Prop is one decoded property. Numeric properties populate Int, string
// properties populate Str.
type Prop struct {
	ID  PropID
	Int int
	Str string
}

// DecodeProps reads (id, value) pairs until the buffer is exhausted or an
// id with an unknown width is hit. The second return value is the raw tail
// that could not be decoded, empty when decoding consumed everything.
//
// Numeric semantics: single byte values are biased unsigned bytes. PropX
// and PropY are unsigned half-tile offsets (world position = value / 2
// tiles). PropX2 and PropY2, introduced by the 2.22 release line, are
// biased shorts holding the position in pixels with the low bit flagging
// negative values (16 pixels per tile).
func DecodeProps(r *bytes.Reader) ([]Prop, []byte) {
	var props []Prop

	for r.Remaining() > 0 {
		id := PropID(r.ReadGChar())

		switch id {
		case PropNickname, PropCurChat, PropLevel, PropGani, PropHead,
			PropSword, PropShield, PropHorse, PropAccount:
			props = append(props, Prop{ID: id, Str: r.ReadGString()})
		case PropMaxPower, PropCurPower, PropRupees, PropArrows, PropBombs,
			PropGlovePower, PropBombPower, PropX, PropY, PropSprite,
			PropStatus, PropCarrySprite:
			props = append(props, Prop{ID: id, Int: int(r.ReadGChar())})
		case PropColors:
			// Five palette slots, one byte each.
			var v int
			for i := 0; i < 5; i++ {
				v = v<<8 | int(r.ReadGChar())
			}
			props = append(props, Prop{ID: id, Int: v})
		case PropPlayerID:
			props = append(props, Prop{ID: id, Int: int(r.ReadGShort())})
		case PropX2, PropY2:
			raw := int(r.ReadGShort())
			// Low bit is the sign flag, remaining bits are pixels.
			pixels := raw >> 1
			if raw&1 != 0 {
				pixels = -pixels
			}
			props = append(props, Prop{ID: id, Int: pixels})
		default:
			// Unknown property id: the width is unknowable, so hand the
			// tail back to the caller rather than guessing.
			return props, r.ReadRemainingBytes()
		}
	}

	return props, nil
}

// EncodeProps writes (id, value) pairs for the property ids this client
// knows how to encode.
func EncodeProps(w *bytes.Writer, props []Prop) {
	for _, p := range props {
		w.WriteGChar(uint8(p.ID))

		switch p.ID {
		case PropNickname, PropCurChat, PropLevel, PropGani, PropHead,
			PropSword, PropShield, PropHorse, PropAccount:
			w.WriteGString(p.Str)
		case PropColors:
			for i := 4; i >= 0; i-- {
				w.WriteGChar(uint8(p.Int >> (8 * i)))
			}
		case PropPlayerID:
			w.WriteGShort(uint16(p.Int))
		case PropX2, PropY2:
			raw := p.Int << 1
			if p.Int < 0 {
				raw = (-p.Int)<<1 | 1
			}
			w.WriteGShort(uint16(raw))
		default:
			w.WriteGChar(uint8(p.Int))
		}
	}
}
