package client

import (
	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// EventKind names a session-level notification derived from one decoded
// packet.
type EventKind int

const (
	EventPlayerWarped EventKind = iota
	EventPlayerMoved
	EventPlayerAdded
	EventPlayerRemoved
	EventLevelChanged
	EventChatReceived
	EventPrivateMessage
	EventServerText
	EventAdminMessage
	EventPlayerHurt
	EventFlagSet
	EventFlagDeleted
	EventNPCUpdated
	EventNPCRemoved
	EventFileReceived
	EventFileTransferFailed
	EventWorldTime
	EventUnknownPacket
	EventDisconnected
)

var eventKindNames = map[EventKind]string{
	EventPlayerWarped:       "player_warped",
	EventPlayerMoved:        "player_moved",
	EventPlayerAdded:        "player_added",
	EventPlayerRemoved:      "player_removed",
	EventLevelChanged:       "level_changed",
	EventChatReceived:       "chat_received",
	EventPrivateMessage:     "private_message",
	EventServerText:         "server_text",
	EventAdminMessage:       "admin_message",
	EventPlayerHurt:         "player_hurt",
	EventFlagSet:            "flag_set",
	EventFlagDeleted:        "flag_deleted",
	EventNPCUpdated:         "npc_updated",
	EventNPCRemoved:         "npc_removed",
	EventFileReceived:       "file_received",
	EventFileTransferFailed: "file_transfer_failed",
	EventWorldTime:          "world_time",
	EventUnknownPacket:      "unknown_packet",
	EventDisconnected:       "disconnected",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Event is one decoded notification. Packet is the decoded packet that
// produced it, nil for events the client synthesizes itself (such as
// EventDisconnected).
type Event struct {
	Kind   EventKind
	Packet packets.Decoded

	// PlayerID is set for events concerning a specific player.
	PlayerID uint16
	// Text is set for chat, message, and text events.
	Text string
	// File is set for EventFileReceived.
	File *packets.CompletedFile
}

// Handler is a subscriber callback. Handlers run synchronously inside
// Update, in subscription order, on the caller's goroutine.
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed.
type Subscription struct {
	kind EventKind
	id   int
}

// subscriberList is an explicit ordered list of handlers for one event kind.
type subscriberList struct {
	nextID   int
	handlers []subscriber
}

type subscriber struct {
	id int
	fn Handler
}

func (l *subscriberList) add(fn Handler) int {
	l.nextID++
	l.handlers = append(l.handlers, subscriber{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *subscriberList) remove(id int) {
	for i, s := range l.handlers {
		if s.id == id {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			return
		}
	}
}

func (l *subscriberList) invoke(ev Event) {
	for _, s := range l.handlers {
		s.fn(ev)
	}
}
