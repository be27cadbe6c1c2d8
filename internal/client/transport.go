package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// Transport owns the TCP connection to the game server. It moves raw byte
// buffers in both directions and knows nothing about the protocol. Failures
// propagate to the caller; there are no retries at this layer.
type Transport struct {
	conn *net.TCPConn
	addr string
}

// Dial opens a TCP connection to the game server.
func Dial(address string) (*Transport, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("error resolving address %s: %w", address, err)
	}

	conn, err := net.DialTCP("tcp", nil, tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", address, err)
	}

	return &Transport{conn: conn, addr: address}, nil
}

// Addr returns the remote address this transport was dialed against.
func (t *Transport) Addr() string {
	return t.addr
}

// Send writes the full contents of data to the connection.
func (t *Transport) Send(data []byte) error {
	sent := 0
	for sent < len(data) {
		n, err := t.conn.Write(data[sent:])
		if err != nil {
			return fmt.Errorf("error writing to %s: %w", t.addr, err)
		}
		sent += n
	}
	return nil
}

// Receive reads whatever bytes are available within the timeout. A timeout
// with no data returns (0, nil); a closed connection returns io.EOF; any
// other socket error is fatal to the session.
func (t *Transport) Receive(buf []byte, timeout time.Duration) (int, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, fmt.Errorf("error setting read deadline: %w", err)
	}

	n, err := t.conn.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("socket error (%s): %w", t.addr, err)
	}
	return n, nil
}

// Close releases the socket unconditionally.
func (t *Transport) Close() error {
	return t.conn.Close()
}
