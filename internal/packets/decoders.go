package packets

import (
	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
)

// DecodeContext carries the per-session knobs decoders need, chiefly the
// negotiated client version. Field widths for a handful of opcodes changed
// between release lines; the context is how a decoder picks the right one.
type DecodeContext struct {
	Version string

	// QuarterHeartDamage selects the wider damage field the 2.22+ release
	// lines use for PLO_HURTPLAYER.
	QuarterHeartDamage bool
}

// NewDecodeContext returns a context configured for the given version.
func NewDecodeContext(version string) *DecodeContext {
	ctx := &DecodeContext{Version: version}
	switch version {
	case "2.22", "6.037":
		ctx.QuarterHeartDamage = true
	}
	return ctx
}

// DecoderFunc turns a packet body into its typed representation. The body
// excludes the opcode byte. Returning an error marks the packet malformed;
// the dispatcher isolates the failure to this one packet.
type DecoderFunc func(ctx *DecodeContext, body []byte) (Decoded, error)

// DefaultDecoders returns a fresh copy of the built-in decoder table,
// suitable for seeding a dispatch registry. Ids absent from the table fall
// through to the opaque Unknown variant.
func DefaultDecoders() map[ID]DecoderFunc {
	out := make(map[ID]DecoderFunc, len(defaultDecoders))
	for id, fn := range defaultDecoders {
		out[id] = fn
	}
	return out
}

var defaultDecoders = map[ID]DecoderFunc{
	PLOLevelBoard:       decodeLevelBoard,
	PLOLevelLink:        decodeLevelLink,
	PLOLevelChest:       decodeLevelChest,
	PLOLevelSign:        decodeLevelSign,
	PLOLevelName:        decodeLevelName,
	PLOBoardModify:      decodeBoardModify,
	PLOOtherPlayerProps: decodeOtherPlayerProps,
	PLOPlayerProps:      decodePlayerProps,
	PLOIsLeader:         decodeIsLeader,
	PLOToAll:            decodeToAll,
	PLOPlayerWarp:       decodePlayerWarp,
	PLOPlayerWarp2:      decodePlayerWarp2,
	PLOWarpFailed:       decodeWarpFailed,
	PLODiscMessage:      decodeDiscMessage,
	PLONPCProps:         decodeNPCProps,
	PLONPCMoved:         decodeNPCMoved,
	PLONPCDel:           decodeNPCDel,
	PLONPCDel2:          decodeNPCDel,
	PLONPCAction:        decodeNPCAction,
	PLOSignature:        decodeSignature,
	PLOFlagSet:          decodeFlagSet,
	PLOFlagDel:          decodeFlagDel,
	PLOAdminMessage:     decodeAdminMessage,
	PLOPrivateMessage:   decodePrivateMessage,
	PLOHurtPlayer:       decodeHurtPlayer,
	PLOExplosion:        decodeExplosion,
	PLONewWorldTime:     decodeNewWorldTime,
	PLOServerText:       decodeServerText,
	PLOAddPlayer:        decodeAddPlayer,
	PLODelPlayer:        decodeDelPlayer,
	PLOFileUpToDate:     decodeFileUpToDate,
	PLOFileSendFailed:   decodeFileSendFailed,
	PLOLargeFileStart:   decodeLargeFileStart,
	PLOLargeFileSize:    decodeLargeFileSize,
	PLOLargeFileEnd:     decodeLargeFileEnd,
	PLOFile:             decodeFile,
	PLORawData:          decodeRawData,
}

func decodeLevelBoard(_ *DecodeContext, body []byte) (Decoded, error) {
	return &LevelBoard{Data: append([]byte(nil), body...)}, nil
}

func decodeLevelLink(_ *DecodeContext, body []byte) (Decoded, error) {
	return &LevelLink{Spec: bytes.DecodeText(body)}, nil
}

func decodeLevelChest(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &LevelChest{X: r.ReadGChar(), Y: r.ReadGChar(), Item: r.ReadGChar()}, nil
}

func decodeLevelSign(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &LevelSign{X: r.ReadGChar(), Y: r.ReadGChar(), Text: r.ReadRemaining()}, nil
}

func decodeLevelName(_ *DecodeContext, body []byte) (Decoded, error) {
	return &LevelName{Name: bytes.DecodeText(body)}, nil
}

func decodeBoardModify(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &BoardModify{
		X:      r.ReadGChar(),
		Y:      r.ReadGChar(),
		Width:  r.ReadGChar(),
		Height: r.ReadGChar(),
		Tiles:  append([]byte(nil), r.ReadRemainingBytes()...),
	}, nil
}

func decodePlayerProps(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	props, _ := DecodeProps(r)
	return &PlayerProps{Props: props}, nil
}

func decodeOtherPlayerProps(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	id := r.ReadGShort()
	props, _ := DecodeProps(r)
	return &OtherPlayerProps{PlayerID: id, Props: props}, nil
}

func decodeIsLeader(_ *DecodeContext, _ []byte) (Decoded, error) {
	return &IsLeader{}, nil
}

func decodeToAll(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &ToAll{PlayerID: r.ReadGShort(), Message: r.ReadRemaining()}, nil
}

// Warp coordinates are unsigned half-tile offsets: world position in tiles
// is the decoded byte divided by two.
func decodePlayerWarp(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &PlayerWarp{
		X:     float32(r.ReadGChar()) / 2,
		Y:     float32(r.ReadGChar()) / 2,
		Level: r.ReadRemaining(),
	}, nil
}

// The second warp form carries pixel-precision coordinates as biased
// shorts, sixteen pixels per tile, sign in the low bit.
func decodePlayerWarp2(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	x := signedPixels(r.ReadGShort())
	y := signedPixels(r.ReadGShort())
	return &PlayerWarp2{
		X:     float32(x) / 16,
		Y:     float32(y) / 16,
		Level: r.ReadRemaining(),
	}, nil
}

func signedPixels(raw uint16) int {
	pixels := int(raw >> 1)
	if raw&1 != 0 {
		pixels = -pixels
	}
	return pixels
}

func decodeWarpFailed(_ *DecodeContext, body []byte) (Decoded, error) {
	return &WarpFailed{Level: bytes.DecodeText(body)}, nil
}

func decodeDiscMessage(_ *DecodeContext, body []byte) (Decoded, error) {
	return &DiscMessage{Message: bytes.DecodeText(body)}, nil
}

func decodeNPCProps(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &NPCProps{
		NPCID: r.ReadGInt5(),
		Props: append([]byte(nil), r.ReadRemainingBytes()...),
	}, nil
}

func decodeNPCMoved(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &NPCMoved{NPCID: r.ReadGInt5()}, nil
}

func decodeNPCDel(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &NPCDel{NPCID: r.ReadGInt5()}, nil
}

func decodeNPCAction(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &NPCAction{
		NPCID: r.ReadGInt5(),
		Data:  append([]byte(nil), r.ReadRemainingBytes()...),
	}, nil
}

func decodeSignature(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &Signature{ID: r.ReadGChar()}, nil
}

// Flags arrive as "name" or "name=value" text.
func decodeFlagSet(_ *DecodeContext, body []byte) (Decoded, error) {
	text := bytes.DecodeText(body)
	for i := 0; i < len(text); i++ {
		if text[i] == '=' {
			return &FlagSet{Name: text[:i], Value: text[i+1:]}, nil
		}
	}
	return &FlagSet{Name: text}, nil
}

func decodeFlagDel(_ *DecodeContext, body []byte) (Decoded, error) {
	return &FlagDel{Name: bytes.DecodeText(body)}, nil
}

func decodeAdminMessage(_ *DecodeContext, body []byte) (Decoded, error) {
	return &AdminMessage{Message: bytes.DecodeText(body)}, nil
}

func decodePrivateMessage(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &PrivateMessage{PlayerID: r.ReadGShort(), Message: r.ReadRemaining()}, nil
}

// Damage is in half hearts for legacy versions. The 2.22+ release lines
// widened the field to a biased short counting quarter hearts.
func decodeHurtPlayer(ctx *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	pkt := &HurtPlayer{PlayerID: r.ReadGShort()}
	if ctx.QuarterHeartDamage {
		pkt.Damage = uint8(r.ReadGShort() / 2)
	} else {
		pkt.Damage = r.ReadGChar()
	}
	return pkt, nil
}

func decodeExplosion(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &Explosion{Power: r.ReadGChar(), X: r.ReadGChar(), Y: r.ReadGChar()}, nil
}

func decodeNewWorldTime(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &NewWorldTime{Time: r.ReadGInt5()}, nil
}

func decodeServerText(_ *DecodeContext, body []byte) (Decoded, error) {
	return &ServerText{Text: bytes.DecodeText(body)}, nil
}

func decodeAddPlayer(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	pkt := &AddPlayer{
		PlayerID: r.ReadGShort(),
		Account:  r.ReadGString(),
	}
	pkt.Props, _ = DecodeProps(r)
	return pkt, nil
}

func decodeDelPlayer(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &DelPlayer{PlayerID: r.ReadGShort()}, nil
}

func decodeFileUpToDate(_ *DecodeContext, body []byte) (Decoded, error) {
	return &FileUpToDate{Filename: bytes.DecodeText(body)}, nil
}

func decodeFileSendFailed(_ *DecodeContext, body []byte) (Decoded, error) {
	return &FileSendFailed{Filename: bytes.DecodeText(body)}, nil
}

func decodeLargeFileStart(_ *DecodeContext, body []byte) (Decoded, error) {
	return &LargeFileStart{Filename: bytes.DecodeText(body)}, nil
}

func decodeLargeFileSize(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &LargeFileSize{Size: r.ReadGInt5()}, nil
}

func decodeLargeFileEnd(_ *DecodeContext, body []byte) (Decoded, error) {
	return &LargeFileEnd{Filename: bytes.DecodeText(body)}, nil
}

func decodeFile(_ *DecodeContext, body []byte) (Decoded, error) {
	r := bytes.NewReader(body)
	return &File{
		ModTime:  r.ReadGInt5(),
		Filename: r.ReadGString(),
		Data:     append([]byte(nil), r.ReadRemainingBytes()...),
	}, nil
}

func decodeRawData(_ *DecodeContext, body []byte) (Decoded, error) {
	return &RawData{Data: append([]byte(nil), body...)}, nil
}
