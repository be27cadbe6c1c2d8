package client

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestTransport_SendReceive(t *testing.T) {
	listener := startListener(t)

	received := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		received <- buf[:n]
		conn.Write([]byte("pong"))
	}()

	transport, err := Dial(listener.Addr().String())
	if err != nil {
		t.Fatal("dial failed:", err)
	}
	defer transport.Close()

	if err := transport.Send([]byte("ping")); err != nil {
		t.Fatal("send failed:", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, []byte("ping")) {
			t.Errorf("server received %q, want ping", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the payload")
	}

	buf := make([]byte, 64)
	deadline := time.Now().Add(5 * time.Second)
	n := 0
	for n == 0 && time.Now().Before(deadline) {
		n, err = transport.Receive(buf, 100*time.Millisecond)
		if err != nil {
			t.Fatal("receive failed:", err)
		}
	}
	if !bytes.Equal(buf[:n], []byte("pong")) {
		t.Errorf("received %q, want pong", buf[:n])
	}
}

func TestTransport_ReceiveTimeoutIsNotAnError(t *testing.T) {
	listener := startListener(t)
	go func() {
		conn, _ := listener.Accept()
		if conn != nil {
			defer conn.Close()
			time.Sleep(500 * time.Millisecond)
		}
	}()

	transport, err := Dial(listener.Addr().String())
	if err != nil {
		t.Fatal("dial failed:", err)
	}
	defer transport.Close()

	n, err := transport.Receive(make([]byte, 16), 50*time.Millisecond)
	if n != 0 || err != nil {
		t.Errorf("Receive() on a quiet socket = (%d, %v), want (0, nil)", n, err)
	}
}

func TestTransport_ReceiveEOF(t *testing.T) {
	listener := startListener(t)
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	transport, err := Dial(listener.Addr().String())
	if err != nil {
		t.Fatal("dial failed:", err)
	}
	defer transport.Close()

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("server never accepted the connection")
	}

	_, err = transport.Receive(make([]byte, 16), time.Second)
	if !errors.Is(err, io.EOF) {
		t.Errorf("Receive() on a closed peer = %v, want io.EOF", err)
	}
}

func TestDial_Failure(t *testing.T) {
	if _, err := Dial("127.0.0.1:1"); err == nil {
		t.Error("expected dialing a closed port to fail")
	}
}
