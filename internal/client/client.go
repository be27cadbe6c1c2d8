// Package client implements the consumer-facing Reborn protocol client: a
// single connection's transport, cipher pair, framer, dispatcher, and
// session state behind a synchronous polling facade.
package client

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hosler/pyReborn-sub001/internal/capture"
	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
	"github.com/hosler/pyReborn-sub001/internal/debug"
	"github.com/hosler/pyReborn-sub001/internal/encryption"
	"github.com/hosler/pyReborn-sub001/internal/packets"
	"github.com/hosler/pyReborn-sub001/internal/protocol"
)

// ConnState tracks the connection lifecycle.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateAuthenticated
)

var (
	// ErrNotConnected is returned by operations that need an open connection.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Connect on a live session.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrLoginTimeout is returned when the server does not acknowledge a
	// login within the caller's deadline. The caller may retry on a fresh
	// connection.
	ErrLoginTimeout = errors.New("login timed out")
)

// AuthError is a login explicitly rejected by the server.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login rejected: %s", e.Message)
}

// Options configures a Client.
type Options struct {
	// Version is the client version string to negotiate (selects the
	// cipher generation and version-dependent field widths).
	Version string
	Logger  *logrus.Logger

	// DownloadsDir receives completed file transfers. Blank keeps files
	// in memory only.
	DownloadsDir string
	// DownloadTTL bounds how long completed files stay in the cache.
	DownloadTTL time.Duration

	// Capture, when non-nil, records every packet crossing the wire.
	Capture *capture.Store
	// Analyzer, when non-nil, exports every packet to a packet analyzer
	// instance.
	Analyzer *debug.AnalyzerExporter
	// PacketLogging prints raw packets to the logger at debug level.
	PacketLogging bool
}

// Client is one connection's protocol stack. It owns the socket, both
// cipher instances, the framer, and the session model exclusively; it is
// not safe for concurrent use, and runs no background goroutines. All work
// happens inside the caller's Update calls.
type Client struct {
	Logger *logrus.Logger

	opts       Options
	gen        encryption.Generation
	pixelProps bool

	transport *Transport
	cipherIn  encryption.Cipher
	cipherOut encryption.Cipher
	framer    *protocol.Framer
	assembler *protocol.Assembler
	registry  *protocol.Registry
	session   *Session
	files     *FileStore

	state       ConnState
	sessionID   string
	discMessage string
	subscribers map[EventKind]*subscriberList
	readBuf     []byte
}

// New validates the options and returns an unconnected client.
func New(opts Options) (*Client, error) {
	gen, err := encryption.GenerationForVersion(opts.Version)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	c := &Client{
		Logger:      opts.Logger,
		opts:        opts,
		gen:         gen,
		registry:    protocol.NewRegistry(opts.Version),
		session:     newSession(),
		files:       NewFileStore(opts.DownloadsDir, opts.DownloadTTL),
		subscribers: make(map[EventKind]*subscriberList),
		readBuf:     make([]byte, 8192),
	}

	switch opts.Version {
	case "2.22", "6.037":
		c.pixelProps = true
	}

	return c, nil
}

// Session returns the mutable session view. Safe to read between Update
// calls; never retained across Connect.
func (c *Client) Session() *Session {
	return c.session
}

// State returns the connection lifecycle state.
func (c *Client) State() ConnState {
	return c.state
}

// Files returns the store of completed file transfers.
func (c *Client) Files() *FileStore {
	return c.files
}

// Registry exposes the dispatch registry so consumers can install decoders
// for opcodes the built-in catalog leaves opaque.
func (c *Client) Registry() *protocol.Registry {
	return c.registry
}

// Subscribe appends a handler to the ordered list for an event kind.
func (c *Client) Subscribe(kind EventKind, fn Handler) Subscription {
	list, ok := c.subscribers[kind]
	if !ok {
		list = &subscriberList{}
		c.subscribers[kind] = list
	}
	return Subscription{kind: kind, id: list.add(fn)}
}

// Unsubscribe removes a previously registered handler.
func (c *Client) Unsubscribe(sub Subscription) {
	if list, ok := c.subscribers[sub.kind]; ok {
		list.remove(sub.id)
	}
}

// Connect opens the TCP connection. The session starts empty: no cipher
// state, framing buffer, or transfer accumulator survives from any previous
// connection.
func (c *Client) Connect(host string, port int) error {
	if c.state != StateDisconnected {
		return ErrAlreadyConnected
	}

	c.state = StateConnecting
	transport, err := Dial(fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		c.state = StateDisconnected
		return err
	}

	c.transport = transport
	c.session = newSession()
	c.assembler = protocol.NewAssembler()
	// The decrypt hook reads the cipher through the client so the framer
	// can exist before login; pre-login frames are cleartext.
	c.framer = protocol.NewFramer(func(b []byte) {
		if c.cipherIn != nil {
			c.cipherIn.Apply(b)
		}
	})
	c.discMessage = ""
	c.sessionID = fmt.Sprintf("%s-%d", transport.Addr(), time.Now().UnixNano())
	c.state = StateConnected

	c.Logger.Infof("connected to %s", transport.Addr())
	return nil
}

// Login negotiates encryption and authenticates the account. The client
// picks a random session key, sends the cleartext hello frame, then polls
// for the server's signature until the timeout elapses. On success both
// directions are enciphered for the rest of the session.
func (c *Client) Login(account, password string, timeout time.Duration) error {
	if c.state != StateConnected {
		return ErrNotConnected
	}

	var keyByte [1]byte
	if _, err := rand.Read(keyByte[:]); err != nil {
		return fmt.Errorf("error generating session key: %w", err)
	}
	key := keyByte[0]

	cipherIn, err := encryption.NewCipher(c.gen, key)
	if err != nil {
		return err
	}
	cipherOut, err := encryption.NewCipher(c.gen, key)
	if err != nil {
		return err
	}
	c.cipherIn = cipherIn
	c.cipherOut = cipherOut

	if err := c.sendHello(key, account, password); err != nil {
		return fmt.Errorf("error sending login: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if _, err := c.Update(100 * time.Millisecond); err != nil {
			return fmt.Errorf("error during login: %w", err)
		}

		if c.session.Authenticated {
			c.state = StateAuthenticated
			c.Logger.Infof("logged in as %s", account)
			return nil
		}
		if c.discMessage != "" {
			message := c.discMessage
			c.drop()
			return &AuthError{Message: message}
		}
		if time.Now().After(deadline) {
			c.drop()
			return ErrLoginTimeout
		}
	}
}

// sendHello transmits the one cleartext frame of the protocol: session key,
// version, account, and password. Everything after it is enciphered.
func (c *Client) sendHello(key byte, account, password string) error {
	w := bytes.NewWriter()
	w.WriteRaw(key)
	w.WriteGString(c.opts.Version)
	w.WriteGString(account)
	w.WriteGString(password)
	body := w.Bytes()

	frame := make([]byte, 2+len(body))
	frame[0] = byte(len(body) >> 8)
	frame[1] = byte(len(body))
	copy(frame[2:], body)

	return c.transport.Send(frame)
}

// Update drives the connection: it reads whatever bytes arrived within the
// timeout, frames and decrypts complete packets, dispatches them, applies
// them to the session, and delivers events to subscribers. The returned
// batch holds the events in packet arrival order. Everything happens
// synchronously on the caller's goroutine.
func (c *Client) Update(timeout time.Duration) ([]Event, error) {
	if c.state < StateConnected {
		return nil, ErrNotConnected
	}

	n, readErr := c.transport.Receive(c.readBuf, timeout)
	if n > 0 {
		c.framer.Feed(c.readBuf[:n])
	}

	var events []Event
	for {
		raw, err := c.framer.Next()
		if err != nil {
			// Framing errors poison the cipher stream; the session is over.
			c.Logger.Errorf("protocol framing error, disconnecting: %v", err)
			c.drop()
			return events, err
		}
		if raw == nil {
			break
		}

		events = append(events, c.processPacket(raw)...)
	}

	for _, ev := range events {
		if list, ok := c.subscribers[ev.Kind]; ok {
			list.invoke(ev)
		}
	}

	if readErr != nil {
		if errors.Is(readErr, io.EOF) {
			c.Logger.Info("server closed the connection")
			c.drop()
			ev := Event{Kind: EventDisconnected, Text: c.discMessage}
			if list, ok := c.subscribers[EventDisconnected]; ok {
				list.invoke(ev)
			}
			return append(events, ev), nil
		}
		c.drop()
		return events, readErr
	}

	return events, nil
}

// processPacket routes one raw packet through decode, transfer reassembly,
// and session application.
func (c *Client) processPacket(raw *protocol.RawPacket) []Event {
	if c.opts.PacketLogging {
		debug.LogPacket(c.Logger, "recv", raw.ID, raw.Body)
	}
	if c.opts.Capture != nil {
		if err := c.opts.Capture.Record(c.sessionID, capture.DirectionIn, uint8(raw.ID), raw.Body); err != nil {
			c.Logger.Warnf("error recording packet: %v", err)
		}
	}
	if c.opts.Analyzer != nil {
		c.opts.Analyzer.Export(c.sessionID, "server", "client", raw.Body)
	}

	decoded, err := c.registry.Dispatch(raw)
	if err != nil {
		// Malformed packet: surfaced for diagnostics, processing continues.
		c.Logger.Warnf("%v", err)
	}
	if c.opts.PacketLogging {
		debug.DumpDecoded(c.Logger, decoded)
	}

	// File-transfer opcodes feed the accumulator instead of the session;
	// only a completed blob produces an event.
	if packets.IsFileTransferOpcode(raw.ID) {
		return c.applyTransferPacket(decoded)
	}

	if disc, ok := decoded.(*packets.DiscMessage); ok {
		c.discMessage = disc.Message
		return []Event{{Kind: EventDisconnected, Packet: decoded, Text: disc.Message}}
	}

	return c.session.apply(decoded)
}

func (c *Client) applyTransferPacket(decoded packets.Decoded) []Event {
	completed, err := c.assembler.Apply(decoded)
	if err != nil {
		if errors.Is(err, protocol.ErrTransferSizeMismatch) {
			// Fatal to the transfer, not to the connection.
			c.Logger.Warnf("discarding transfer: %v", err)
			return []Event{{Kind: EventFileTransferFailed, Packet: decoded}}
		}
		c.Logger.Warnf("%v", err)
		return nil
	}
	if completed == nil {
		return nil
	}

	if err := c.files.Put(completed); err != nil {
		c.Logger.Warnf("error storing %s: %v", completed.Filename, err)
	}
	c.Logger.Debugf("received file %s (%d bytes)", completed.Filename, len(completed.Data))
	return []Event{{Kind: EventFileReceived, File: completed, Text: completed.Filename}}
}

// send frames, encrypts, and transmits one outbound packet.
func (c *Client) send(id packets.ID, body []byte) error {
	if c.state < StateConnected || c.cipherOut == nil {
		return ErrNotConnected
	}

	if c.opts.PacketLogging {
		debug.LogPacket(c.Logger, "send", id, body)
	}
	if c.opts.Capture != nil {
		if err := c.opts.Capture.Record(c.sessionID, capture.DirectionOut, uint8(id), body); err != nil {
			c.Logger.Warnf("error recording packet: %v", err)
		}
	}
	if c.opts.Analyzer != nil {
		c.opts.Analyzer.Export(c.sessionID, "client", "server", body)
	}

	frame := protocol.EncodeFrame(id, body)
	// The length prefix stays cleartext; opcode and body are enciphered,
	// advancing the outbound cipher once per frame.
	c.cipherOut.Apply(frame[2:])

	return c.transport.Send(frame)
}

// Move offsets the local player's position and reports it to the server.
// Legacy versions encode position as unsigned half-tile bytes; 2.22+ uses
// signed pixel shorts.
func (c *Client) Move(dx, dy float32) error {
	x := c.session.Player.X + dx
	y := c.session.Player.Y + dy
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	w := bytes.NewWriter()
	if c.pixelProps {
		packets.EncodeProps(w, []packets.Prop{
			{ID: packets.PropX2, Int: int(x * 16)},
			{ID: packets.PropY2, Int: int(y * 16)},
		})
	} else {
		packets.EncodeProps(w, []packets.Prop{
			{ID: packets.PropX, Int: int(x * 2)},
			{ID: packets.PropY, Int: int(y * 2)},
		})
	}

	if err := c.send(packets.PLIPlayerProps, w.Bytes()); err != nil {
		return err
	}
	c.session.Player.X = x
	c.session.Player.Y = y
	return nil
}

// Say broadcasts chat to the current level.
func (c *Client) Say(text string) error {
	w := bytes.NewWriter()
	w.WriteText(text)
	if err := c.send(packets.PLIToAll, w.Bytes()); err != nil {
		return err
	}
	c.session.Player.Chat = text
	return nil
}

// SendPrivateMessage sends a direct message to another player.
func (c *Client) SendPrivateMessage(playerID uint16, text string) error {
	w := bytes.NewWriter()
	w.WriteGShort(playerID)
	w.WriteText(text)
	return c.send(packets.PLIPrivateMessage, w.Bytes())
}

// SetNickname updates the local player's display name.
func (c *Client) SetNickname(nickname string) error {
	w := bytes.NewWriter()
	packets.EncodeProps(w, []packets.Prop{{ID: packets.PropNickname, Str: nickname}})
	if err := c.send(packets.PLIPlayerProps, w.Bytes()); err != nil {
		return err
	}
	c.session.Player.Nickname = nickname
	return nil
}

// RequestFile asks the server for a file by name. The contents arrive via
// the file-transfer sub-protocol and surface as an EventFileReceived.
func (c *Client) RequestFile(filename string) error {
	w := bytes.NewWriter()
	w.WriteText(filename)
	return c.send(packets.PLIWantFile, w.Bytes())
}

// TriggerAction fires a named serverside trigger at a position in tiles.
func (c *Client) TriggerAction(x, y float32, action string) error {
	w := bytes.NewWriter()
	w.WriteGChar(uint8(x * 2))
	w.WriteGChar(uint8(y * 2))
	w.WriteText(action)
	return c.send(packets.PLITriggerAction, w.Bytes())
}

// Disconnect tears the session down. Safe to call at any point and in any
// state; the socket is released unconditionally, in-flight transfer
// accumulators are discarded, and cipher state is reset so nothing leaks
// into a future connection.
func (c *Client) Disconnect() error {
	if c.state == StateDisconnected {
		return nil
	}
	err := c.drop()
	c.Logger.Info("disconnected")
	return err
}

// drop releases connection resources and resets protocol state.
func (c *Client) drop() error {
	var err error
	if c.transport != nil {
		err = c.transport.Close()
		c.transport = nil
	}
	if c.framer != nil {
		c.framer.Reset()
		c.framer = nil
	}
	if c.assembler != nil {
		c.assembler.Reset()
	}
	c.cipherIn = nil
	c.cipherOut = nil
	c.session.Authenticated = false
	c.state = StateDisconnected
	return err
}
