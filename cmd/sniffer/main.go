// Live sniffer for Reborn protocol sessions. Captures traffic on the
// given device, follows each session's cipher state from the cleartext
// hello frame, and prints decoded packets.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

var (
	device     = flag.String("d", "en0", "Device on which to listen for packets")
	serverPort = flag.Uint("p", 14900, "Port the game server is listening on")
)

func main() {
	flag.Parse()

	handle, err := pcap.OpenLive(*device, math.MaxInt32, false, pcap.BlockForever)
	if err != nil {
		exit("error opening handle: %v", err)
	}
	if err := handle.SetBPFFilter(fmt.Sprintf("tcp and port %d", *serverPort)); err != nil {
		exit("error setting filter: %v", err)
	}

	s := &sniffer{
		Writer:     bufio.NewWriter(os.Stdout),
		ServerPort: uint16(*serverPort),
		sessions:   make(map[string]*session),
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	s.startReading(packetSource.Packets())
}

func exit(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
