// Package debug contains developer utilities: packet printing, decoded
// struct dumps, a pprof server, and an exporter that ships captured packets
// to an external analyzer instance.
package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// LogPacket writes one packet to the logger at debug level as a hex/ascii
// dump headed by the opcode's catalog name.
func LogPacket(logger *logrus.Logger, direction string, id packets.ID, body []byte) {
	def := packets.Lookup(id)
	logger.Debugf("[%s] %s (0x%02x, %d bytes)\n%s", direction, def.Name, uint8(id), len(body), FormatPayload(body))
}

// DumpDecoded logs a decoded packet's full field contents.
func DumpDecoded(logger *logrus.Logger, decoded packets.Decoded) {
	logger.Debug(spew.Sdump(decoded))
}

const displayWidth = 16

// FormatPayload renders packet bytes in two columns, one for hex and the
// other for their ascii representation.
func FormatPayload(data []byte) string {
	var b strings.Builder
	for offset := 0; offset < len(data); offset += displayWidth {
		end := offset + displayWidth
		if end > len(data) {
			end = len(data)
		}
		formatLine(&b, data[offset:end], offset)
	}
	return b.String()
}

func formatLine(b *strings.Builder, line []byte, offset int) {
	fmt.Fprintf(b, "(%04X) ", offset)
	for i := 0; i < displayWidth; i++ {
		if i == 8 {
			b.WriteString("  ")
		}
		if i < len(line) {
			fmt.Fprintf(b, "%02x ", line[i])
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString("    ")
	for _, c := range line {
		if strconv.IsPrint(rune(c)) && c < 0x80 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	b.WriteByte('\n')
}

// StartPprofServer starts the default pprof HTTP server on localhost for
// runtime information about the client process.
func StartPprofServer(logger *logrus.Logger, port int) {
	listenerAddr := fmt.Sprintf("localhost:%d", port)
	logger.Infof("starting pprof server on %s", listenerAddr)

	go func() {
		if err := http.ListenAndServe(listenerAddr, nil); err != nil {
			logger.Infof("error starting pprof server: %s", err)
		}
	}()
}

type analyzerRequest struct {
	ClientName  string
	SessionID   string
	Source      string
	Destination string
	Contents    []int
}

// AnalyzerExporter forwards packets to a packet analyzer instance over
// HTTP. Delivery is fire-and-forget; the exporter drops packets rather
// than stalling the session.
type AnalyzerExporter struct {
	logger  *logrus.Logger
	address string
	queue   chan analyzerRequest
}

// NewAnalyzerExporter starts an exporter delivering to address.
func NewAnalyzerExporter(logger *logrus.Logger, address string) *AnalyzerExporter {
	e := &AnalyzerExporter{
		logger:  logger,
		address: address,
		queue:   make(chan analyzerRequest, 10),
	}
	go e.run()
	return e
}

// Export queues one packet for delivery. source and destination are
// "client"/"server" depending on direction.
func (e *AnalyzerExporter) Export(sessionID, source, destination string, data []byte) {
	contents := make([]int, len(data))
	for i, b := range data {
		contents[i] = int(b)
	}

	select {
	case e.queue <- analyzerRequest{"reborn", sessionID, source, destination, contents}:
	default:
		// Queue full; we don't care if the packets don't get through.
	}
}

func (e *AnalyzerExporter) run() {
	httpClient := http.Client{Timeout: time.Second}

	for packet := range e.queue {
		reqBytes, _ := json.Marshal(&packet)
		r, err := httpClient.Post(
			"http://"+e.address,
			"application/json",
			bytes.NewBuffer(reqBytes),
		)
		if err != nil {
			e.logger.Warn("failed to send packet to analyzer: ", err)
		} else if r.StatusCode != 200 {
			e.logger.Warn("failed to send packet to analyzer: ", r.Status)
		}
	}
}
