package protocol

import (
	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// transfer accumulates one in-flight large file.
type transfer struct {
	filename     string
	modTime      uint32
	declaredSize uint32
	sizeKnown    bool
	data         []byte
}

// Assembler reassembles the multi-packet file transfer sub-protocol into
// single logical blobs. A LargeFileStart opens an accumulator, LargeFileSize
// declares the expected byte count, File and RawData packets append chunks,
// and LargeFileEnd finalizes. The most recently started transfer is the
// active one; anonymous RawData chunks always append to it.
type Assembler struct {
	transfers map[string]*transfer
	active    string
}

func NewAssembler() *Assembler {
	return &Assembler{transfers: make(map[string]*transfer)}
}

// InProgress reports whether any transfer accumulator is open.
func (a *Assembler) InProgress() bool {
	return len(a.transfers) > 0
}

// Apply routes one decoded file-category packet into the accumulator set.
// It returns a CompletedFile when a transfer finalizes successfully, or when
// a File packet arrives outside any transfer (the single-frame file case).
// A TransferError wrapping ErrTransferSizeMismatch means the finalizing
// transfer was discarded; the session itself is unaffected.
func (a *Assembler) Apply(pkt packets.Decoded) (*packets.CompletedFile, error) {
	switch p := pkt.(type) {
	case *packets.LargeFileStart:
		a.transfers[p.Filename] = &transfer{filename: p.Filename}
		a.active = p.Filename
		return nil, nil

	case *packets.LargeFileSize:
		t := a.transfers[a.active]
		if t == nil {
			return nil, ErrNoActiveTransfer
		}
		t.declaredSize = p.Size
		t.sizeKnown = true
		return nil, nil

	case *packets.File:
		if t := a.transfers[p.Filename]; t != nil {
			t.modTime = p.ModTime
			t.data = append(t.data, p.Data...)
			a.active = p.Filename
			return nil, nil
		}
		// No open accumulator for this name: the whole file fit in one frame.
		return &packets.CompletedFile{
			Filename: p.Filename,
			ModTime:  p.ModTime,
			Data:     p.Data,
		}, nil

	case *packets.RawData:
		t := a.transfers[a.active]
		if t == nil {
			return nil, ErrNoActiveTransfer
		}
		t.data = append(t.data, p.Data...)
		return nil, nil

	case *packets.LargeFileEnd:
		t := a.transfers[p.Filename]
		if t == nil {
			return nil, ErrNoActiveTransfer
		}
		// The accumulator is finished either way; a mismatch discards it
		// rather than truncating or padding silently.
		delete(a.transfers, p.Filename)
		if a.active == p.Filename {
			a.active = ""
		}

		if t.sizeKnown && t.declaredSize != uint32(len(t.data)) {
			return nil, &TransferError{
				Filename: p.Filename,
				Declared: t.declaredSize,
				Received: uint32(len(t.data)),
				Err:      ErrTransferSizeMismatch,
			}
		}

		return &packets.CompletedFile{
			Filename: t.filename,
			ModTime:  t.modTime,
			Data:     t.data,
		}, nil
	}

	return nil, nil
}

// Reset discards every in-flight accumulator. Called on disconnect.
func (a *Assembler) Reset() {
	a.transfers = make(map[string]*transfer)
	a.active = ""
}
