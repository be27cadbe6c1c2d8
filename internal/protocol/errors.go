// Package protocol implements the Reborn packet framing layer: splitting a
// decrypted byte stream into raw packets, reassembling multi-packet file
// transfers, and dispatching raw packets to typed decoders.
package protocol

import (
	"errors"
	"fmt"
)

// ErrTransferSizeMismatch is returned when a file transfer finalizes with an
// accumulated byte count different from its declared size. The transfer is
// discarded; the connection survives.
var ErrTransferSizeMismatch = errors.New("file transfer size mismatch")

// ErrNoActiveTransfer is returned when transfer data arrives with no open
// accumulator to receive it.
var ErrNoActiveTransfer = errors.New("transfer data received outside an active transfer")

// FramingError reports a frame whose declared length is outside protocol
// bounds. Framing errors are fatal to the session: once the stream position
// is suspect the cipher state can no longer be trusted, so the caller must
// disconnect.
type FramingError struct {
	DeclaredLength int
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("frame declares out-of-bounds length %d (max %d)", e.DeclaredLength, MaxFrameBody)
}

// TransferError wraps a file transfer failure with the transfer identity.
type TransferError struct {
	Filename string
	Declared uint32
	Received uint32
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %q: %v (declared %d bytes, received %d)",
		e.Filename, e.Err, e.Declared, e.Received)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
