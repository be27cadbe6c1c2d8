package client

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
	"github.com/hosler/pyReborn-sub001/internal/encryption"
	"github.com/hosler/pyReborn-sub001/internal/packets"
	"github.com/hosler/pyReborn-sub001/internal/protocol"
)

const loginTimeout = 5 * time.Second

// serverConn wraps one accepted connection with the cipher pair a real
// server would hold for it, seeded from the client's hello frame.
type serverConn struct {
	conn      net.Conn
	cipherIn  encryption.Cipher
	cipherOut encryption.Cipher

	key      byte
	version  string
	account  string
	password string
}

// acceptAndGreet accepts one connection and consumes its cleartext hello.
func acceptAndGreet(listener net.Listener) (*serverConn, error) {
	conn, err := listener.Accept()
	if err != nil {
		return nil, err
	}

	header := make([]byte, 2)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, err
	}
	body := make([]byte, int(header[0])<<8|int(header[1]))
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, err
	}

	r := bytes.NewReader(body)
	s := &serverConn{conn: conn}
	s.key = r.ReadRaw()
	s.version = r.ReadGString()
	s.account = r.ReadGString()
	s.password = r.ReadGString()

	gen, err := encryption.GenerationForVersion(s.version)
	if err != nil {
		return nil, err
	}
	s.cipherIn, _ = encryption.NewCipher(gen, s.key)
	s.cipherOut, _ = encryption.NewCipher(gen, s.key)
	return s, nil
}

// sendPacket frames, encrypts, and writes one server-to-client packet.
func (s *serverConn) sendPacket(id packets.ID, body []byte) error {
	frame := protocol.EncodeFrame(id, body)
	s.cipherOut.Apply(frame[2:])
	_, err := s.conn.Write(frame)
	return err
}

// readPacket reads and decrypts one client-to-server packet.
func (s *serverConn) readPacket() (*protocol.RawPacket, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(s.conn, header); err != nil {
		return nil, err
	}
	bodyLen := int(header[0])<<8 | int(header[1])
	rest := make([]byte, 1+bodyLen)
	if _, err := io.ReadFull(s.conn, rest); err != nil {
		return nil, err
	}
	s.cipherIn.Apply(rest)
	return &protocol.RawPacket{ID: packets.ID(rest[0] - 32), Body: rest[1:]}, nil
}

func newTestClient(t *testing.T) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := New(Options{Version: "2.22", Logger: logger})
	if err != nil {
		t.Fatal("failed to build client:", err)
	}
	return c
}

func startListener(t *testing.T) net.Listener {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("failed to start listener:", err)
	}
	t.Cleanup(func() { listener.Close() })
	return listener
}

func connect(t *testing.T, c *Client, listener net.Listener) {
	addr := listener.Addr().(*net.TCPAddr)
	if err := c.Connect("127.0.0.1", addr.Port); err != nil {
		t.Fatal("failed to connect:", err)
	}
	t.Cleanup(func() { c.Disconnect() })
}

func TestClient_LoginAndEvents(t *testing.T) {
	listener := startListener(t)
	c := newTestClient(t)

	serverErr := make(chan error, 1)
	said := make(chan *protocol.RawPacket, 1)
	go func() {
		s, err := acceptAndGreet(listener)
		if err != nil {
			serverErr <- err
			return
		}
		defer s.conn.Close()

		if s.account != "testacct" || s.password != "hunter2" {
			serverErr <- errors.New("hello carried the wrong credentials")
			return
		}

		w := bytes.NewWriter()
		w.WriteGChar(7)
		if err := s.sendPacket(packets.PLOSignature, w.Bytes()); err != nil {
			serverErr <- err
			return
		}
		if err := s.sendPacket(packets.PLOLevelName, []byte("town.nw")); err != nil {
			serverErr <- err
			return
		}

		w = bytes.NewWriter()
		w.WriteGShort(4)
		w.WriteText("welcome in")
		if err := s.sendPacket(packets.PLOToAll, w.Bytes()); err != nil {
			serverErr <- err
			return
		}

		pkt, err := s.readPacket()
		if err != nil {
			serverErr <- err
			return
		}
		said <- pkt
		serverErr <- nil
	}()

	var chats, levels []Event
	c.Subscribe(EventChatReceived, func(ev Event) { chats = append(chats, ev) })
	c.Subscribe(EventLevelChanged, func(ev Event) { levels = append(levels, ev) })

	connect(t, c, listener)
	if err := c.Login("testacct", "hunter2", loginTimeout); err != nil {
		t.Fatal("login failed:", err)
	}
	if c.State() != StateAuthenticated {
		t.Errorf("state = %d after login, want StateAuthenticated", c.State())
	}

	// Drain whatever the server sent after the signature.
	deadline := time.Now().Add(loginTimeout)
	for (len(chats) == 0 || len(levels) == 0) && time.Now().Before(deadline) {
		if _, err := c.Update(50 * time.Millisecond); err != nil {
			t.Fatal("update failed:", err)
		}
	}

	if len(levels) != 1 || levels[0].Text != "town.nw" {
		t.Errorf("level events = %v, want one for town.nw", levels)
	}
	if len(chats) != 1 || chats[0].PlayerID != 4 || chats[0].Text != "welcome in" {
		t.Errorf("chat events = %v, want one from player 4", chats)
	}
	if c.Session().Level != "town.nw" {
		t.Errorf("session level = %q, want town.nw", c.Session().Level)
	}

	if err := c.Say("hello everyone"); err != nil {
		t.Fatal("say failed:", err)
	}

	select {
	case pkt := <-said:
		if pkt.ID != packets.PLIToAll {
			t.Errorf("server received opcode %d, want %d", pkt.ID, packets.PLIToAll)
		}
		if got := bytes.DecodeText(pkt.Body); got != "hello everyone" {
			t.Errorf("server received chat %q, want %q", got, "hello everyone")
		}
	case <-time.After(loginTimeout):
		t.Fatal("server never received the chat packet")
	}

	if err := <-serverErr; err != nil {
		t.Fatal("server error:", err)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	listener := startListener(t)
	c := newTestClient(t)

	go func() {
		s, err := acceptAndGreet(listener)
		if err != nil {
			return
		}
		defer s.conn.Close()
		s.sendPacket(packets.PLODiscMessage, []byte("account banned"))
	}()

	connect(t, c, listener)
	err := c.Login("badacct", "pw", loginTimeout)

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected an AuthError, got %v", err)
	}
	if authErr.Message != "account banned" {
		t.Errorf("rejection message = %q, want %q", authErr.Message, "account banned")
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %d after rejection, want StateDisconnected", c.State())
	}
}

func TestClient_FreshStateAfterReconnect(t *testing.T) {
	listener := startListener(t)
	c := newTestClient(t)

	// First connection: authenticate, populate state, and leave a file
	// transfer dangling when the connection drops.
	go func() {
		s, err := acceptAndGreet(listener)
		if err != nil {
			return
		}
		defer s.conn.Close()

		w := bytes.NewWriter()
		w.WriteGChar(1)
		s.sendPacket(packets.PLOSignature, w.Bytes())

		w = bytes.NewWriter()
		w.WriteGShort(9)
		w.WriteGString("bob")
		s.sendPacket(packets.PLOAddPlayer, w.Bytes())

		s.sendPacket(packets.PLOLargeFileStart, []byte("huge.nw"))

		w = bytes.NewWriter()
		w.WriteGInt5(0)
		w.WriteGString("huge.nw")
		s.sendPacket(packets.PLOFile, append(w.Bytes(), []byte("first half of")...))
	}()

	connect(t, c, listener)
	if err := c.Login("acct", "pw", loginTimeout); err != nil {
		t.Fatal("first login failed:", err)
	}

	deadline := time.Now().Add(loginTimeout)
	for !c.assembler.InProgress() && time.Now().Before(deadline) {
		if _, err := c.Update(50 * time.Millisecond); err != nil {
			t.Fatal("update failed:", err)
		}
	}
	if !c.assembler.InProgress() {
		t.Fatal("expected a dangling transfer before disconnect")
	}
	if len(c.Session().Players) != 1 {
		t.Fatalf("tracking %d players, want 1", len(c.Session().Players))
	}

	if err := c.Disconnect(); err != nil {
		t.Fatal("disconnect failed:", err)
	}

	// Second connection: everything protocol-level starts over. No cipher
	// state, half-read frame, partial transfer, or player survives.
	go func() {
		s, err := acceptAndGreet(listener)
		if err != nil {
			return
		}
		defer s.conn.Close()

		w := bytes.NewWriter()
		w.WriteGChar(2)
		s.sendPacket(packets.PLOSignature, w.Bytes())
		time.Sleep(100 * time.Millisecond)
	}()

	connect(t, c, listener)
	if err := c.Login("acct", "pw", loginTimeout); err != nil {
		t.Fatal("second login failed:", err)
	}

	if c.assembler.InProgress() {
		t.Error("partial transfer leaked across reconnect")
	}
	if len(c.Session().Players) != 0 {
		t.Errorf("%d players leaked across reconnect, want 0", len(c.Session().Players))
	}
	if c.Session().SignatureID != 2 {
		t.Errorf("signature id = %d, want 2 from the second session", c.Session().SignatureID)
	}
}

func TestClient_ServerClosesConnection(t *testing.T) {
	listener := startListener(t)
	c := newTestClient(t)

	go func() {
		s, err := acceptAndGreet(listener)
		if err != nil {
			return
		}

		w := bytes.NewWriter()
		w.WriteGChar(1)
		s.sendPacket(packets.PLOSignature, w.Bytes())
		time.Sleep(100 * time.Millisecond)
		s.conn.Close()
	}()

	var disconnects []Event
	c.Subscribe(EventDisconnected, func(ev Event) { disconnects = append(disconnects, ev) })

	connect(t, c, listener)
	if err := c.Login("acct", "pw", loginTimeout); err != nil {
		t.Fatal("login failed:", err)
	}

	deadline := time.Now().Add(loginTimeout)
	for c.State() != StateDisconnected && time.Now().Before(deadline) {
		if _, err := c.Update(50 * time.Millisecond); err != nil {
			t.Fatal("update failed:", err)
		}
	}

	if c.State() != StateDisconnected {
		t.Fatal("client never observed the server closing the connection")
	}
	if len(disconnects) != 1 {
		t.Errorf("received %d disconnect events, want 1", len(disconnects))
	}
}

func TestClient_OperationsRequireConnection(t *testing.T) {
	c := newTestClient(t)

	if err := c.Say("hello"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Say() on a fresh client = %v, want ErrNotConnected", err)
	}
	if _, err := c.Update(time.Millisecond); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Update() on a fresh client = %v, want ErrNotConnected", err)
	}
	if err := c.Login("a", "b", time.Second); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Login() on a fresh client = %v, want ErrNotConnected", err)
	}
}

func TestNew_UnsupportedVersion(t *testing.T) {
	if _, err := New(Options{Version: "1.41"}); err == nil {
		t.Error("expected an error for an unsupported client version")
	}
}
