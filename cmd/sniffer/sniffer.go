package main

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"

	"github.com/hosler/pyReborn-sub001/internal/core/bytes"
	"github.com/hosler/pyReborn-sub001/internal/debug"
	"github.com/hosler/pyReborn-sub001/internal/encryption"
	"github.com/hosler/pyReborn-sub001/internal/packets"
	"github.com/hosler/pyReborn-sub001/internal/protocol"
)

// session follows one client connection: the cipher pair initialized from
// the cleartext hello frame and a framer per direction.
type session struct {
	version     string
	account     string
	sawHello    bool
	clientFrame *protocol.Framer
	serverFrame *protocol.Framer
}

type sniffer struct {
	Writer     *bufio.Writer
	ServerPort uint16

	sessions map[string]*session
}

func (s *sniffer) startReading(packetChan chan gopacket.Packet) {
	for packet := range packetChan {
		transport := packet.TransportLayer()
		if transport == nil || packet.ApplicationLayer() == nil {
			continue
		}

		flow := transport.TransportFlow()
		dstPort := binary.BigEndian.Uint16(flow.Dst().Raw())
		data := packet.ApplicationLayer().Payload()

		clientPacket := dstPort == s.ServerPort
		// FastHash is symmetric, so both directions of a connection land on
		// the same session entry.
		s.handlePayload(fmt.Sprintf("%x", flow.FastHash()), clientPacket, data)
	}
}

// handlePayload feeds one TCP segment into the session's framer for that
// direction and prints every complete packet it yields.
func (s *sniffer) handlePayload(id string, clientPacket bool, data []byte) {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}

	// The first client payload is the cleartext hello: length prefix, key
	// byte, then version/account/password strings. Everything after it is
	// enciphered with a pair of ciphers seeded from the key.
	if clientPacket && !sess.sawHello {
		if len(data) < 4 {
			return
		}
		r := bytes.NewReader(data[2:])
		key := r.ReadRaw()
		sess.version = r.ReadGString()
		sess.account = r.ReadGString()
		sess.sawHello = true

		gen, err := encryption.GenerationForVersion(sess.version)
		if err != nil {
			fmt.Fprintf(s.Writer, "session %s: %v, leaving stream enciphered\n", id, err)
			sess.clientFrame = protocol.NewFramer(nil)
			sess.serverFrame = protocol.NewFramer(nil)
		} else {
			clientCipher, _ := encryption.NewCipher(gen, key)
			serverCipher, _ := encryption.NewCipher(gen, key)
			sess.clientFrame = protocol.NewFramer(clientCipher.Apply)
			sess.serverFrame = protocol.NewFramer(serverCipher.Apply)
		}

		fmt.Fprintf(s.Writer, "session %s: hello from %q (version %s, key 0x%02x)\n",
			id, sess.account, sess.version, key)
		s.Writer.Flush()
		return
	}
	if !sess.sawHello {
		// Joined mid-session; without the hello the cipher state is
		// unknowable and the stream stays opaque.
		return
	}

	framer := sess.serverFrame
	direction := "server->client"
	if clientPacket {
		framer = sess.clientFrame
		direction = "client->server"
	}

	framer.Feed(data)
	for {
		raw, err := framer.Next()
		if err != nil {
			fmt.Fprintf(s.Writer, "session %s: %v, abandoning stream\n", id, err)
			delete(s.sessions, id)
			break
		}
		if raw == nil {
			break
		}

		def := packets.Lookup(raw.ID)
		fmt.Fprintf(s.Writer, "[%s] %s (0x%02x, %d bytes)\n%s",
			direction, def.Name, uint8(raw.ID), len(raw.Body), debug.FormatPayload(raw.Body))
	}
	s.Writer.Flush()
}
