package protocol

import (
	"fmt"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// Registry maps opcodes to decoder routines and dispatches raw packets to
// them. Ids with no registered decoder fall through to the opaque Unknown
// variant; dispatch never fails outright since the catalog is explicitly
// incomplete.
type Registry struct {
	ctx      *packets.DecodeContext
	decoders map[packets.ID]packets.DecoderFunc
}

// NewRegistry builds a registry seeded with the default decoder table,
// configured for the given client version.
func NewRegistry(version string) *Registry {
	return &Registry{
		ctx:      packets.NewDecodeContext(version),
		decoders: packets.DefaultDecoders(),
	}
}

// Register installs (or replaces) the decoder for an opcode. Registering a
// nil decoder removes the id, reverting it to opaque handling.
func (r *Registry) Register(id packets.ID, fn packets.DecoderFunc) {
	if fn == nil {
		delete(r.decoders, id)
		return
	}
	r.decoders[id] = fn
}

// Dispatch decodes one raw packet. The returned Decoded is never nil: a
// missing decoder yields *packets.Unknown with the body passed through
// unmodified, and a decoder failure yields the same opaque fallback along
// with the error so the caller can log it. Either way processing of
// subsequent packets is unaffected.
func (r *Registry) Dispatch(raw *RawPacket) (packets.Decoded, error) {
	fn, ok := r.decoders[raw.ID]
	if !ok {
		return &packets.Unknown{ID: raw.ID, Payload: raw.Body}, nil
	}

	decoded, err := fn(r.ctx, raw.Body)
	if err != nil {
		return &packets.Unknown{ID: raw.ID, Payload: raw.Body},
			fmt.Errorf("decoding %s: %w", packets.Lookup(raw.ID).Name, err)
	}
	return decoded, nil
}
