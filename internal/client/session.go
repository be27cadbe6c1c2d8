package client

import (
	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// Player is the read model for one player, local or remote. Position is in
// tiles; vitals use the protocol's half-heart granularity converted to
// whole hearts.
type Player struct {
	ID        uint16
	Account   string
	Nickname  string
	X, Y      float32
	Level     string
	Hearts    float32
	MaxHearts float32
	Arrows    int
	Bombs     int
	Rupees    int
	Sprite    int
	Chat      string
}

// NPC is the read model for a level NPC. Property layouts vary by server
// scriptset, so props are retained raw.
type NPC struct {
	ID    uint32
	Props []byte
}

// Session is one authenticated connection's mutable world view. It is owned
// by the client and mutated only as a direct effect of decoded packets;
// consumers read it freely between Update calls.
type Session struct {
	Authenticated bool
	SignatureID   uint8

	Player  Player
	Players map[uint16]*Player
	NPCs    map[uint32]*NPC
	Level   string
	Flags   map[string]string

	WorldTime uint32
	IsLeader  bool
}

func newSession() *Session {
	return &Session{
		Players: make(map[uint16]*Player),
		NPCs:    make(map[uint32]*NPC),
		Flags:   make(map[string]string),
	}
}

// apply mutates the session for one decoded packet and returns the events
// it produced, in order. State mutation and event emission complete before
// the next packet is dispatched, so each packet is atomic from the
// consumer's perspective.
func (s *Session) apply(pkt packets.Decoded) []Event {
	switch p := pkt.(type) {
	case *packets.Signature:
		s.Authenticated = true
		s.SignatureID = p.ID
		return nil

	case *packets.IsLeader:
		s.IsLeader = true
		return nil

	case *packets.PlayerProps:
		return s.applyProps(&s.Player, p.Props, true)

	case *packets.OtherPlayerProps:
		remote := s.remotePlayer(p.PlayerID)
		return s.applyProps(remote, p.Props, false)

	case *packets.AddPlayer:
		remote := s.remotePlayer(p.PlayerID)
		remote.Account = p.Account
		evs := s.applyProps(remote, p.Props, false)
		return append([]Event{{Kind: EventPlayerAdded, Packet: pkt, PlayerID: p.PlayerID}}, evs...)

	case *packets.DelPlayer:
		delete(s.Players, p.PlayerID)
		return []Event{{Kind: EventPlayerRemoved, Packet: pkt, PlayerID: p.PlayerID}}

	case *packets.PlayerWarp:
		return s.warpLocalPlayer(pkt, p.X, p.Y, p.Level)

	case *packets.PlayerWarp2:
		return s.warpLocalPlayer(pkt, p.X, p.Y, p.Level)

	case *packets.WarpFailed:
		// The server rejected a warp; position is unchanged but the level
		// field snaps back to the authoritative one.
		s.Player.Level = p.Level
		return []Event{{Kind: EventPlayerWarped, Packet: pkt, PlayerID: s.Player.ID}}

	case *packets.LevelName:
		s.Level = p.Name
		s.Player.Level = p.Name
		return []Event{{Kind: EventLevelChanged, Packet: pkt, Text: p.Name}}

	case *packets.ToAll:
		if remote, ok := s.Players[p.PlayerID]; ok {
			remote.Chat = p.Message
		}
		return []Event{{Kind: EventChatReceived, Packet: pkt, PlayerID: p.PlayerID, Text: p.Message}}

	case *packets.PrivateMessage:
		return []Event{{Kind: EventPrivateMessage, Packet: pkt, PlayerID: p.PlayerID, Text: p.Message}}

	case *packets.ServerText:
		return []Event{{Kind: EventServerText, Packet: pkt, Text: p.Text}}

	case *packets.AdminMessage:
		return []Event{{Kind: EventAdminMessage, Packet: pkt, Text: p.Message}}

	case *packets.HurtPlayer:
		s.Player.Hearts -= float32(p.Damage) / 2
		if s.Player.Hearts < 0 {
			s.Player.Hearts = 0
		}
		return []Event{{Kind: EventPlayerHurt, Packet: pkt, PlayerID: p.PlayerID}}

	case *packets.FlagSet:
		s.Flags[p.Name] = p.Value
		return []Event{{Kind: EventFlagSet, Packet: pkt, Text: p.Name}}

	case *packets.FlagDel:
		delete(s.Flags, p.Name)
		return []Event{{Kind: EventFlagDeleted, Packet: pkt, Text: p.Name}}

	case *packets.NPCProps:
		npc, ok := s.NPCs[p.NPCID]
		if !ok {
			npc = &NPC{ID: p.NPCID}
			s.NPCs[p.NPCID] = npc
		}
		npc.Props = p.Props
		return []Event{{Kind: EventNPCUpdated, Packet: pkt}}

	case *packets.NPCDel:
		delete(s.NPCs, p.NPCID)
		return []Event{{Kind: EventNPCRemoved, Packet: pkt}}

	case *packets.NewWorldTime:
		s.WorldTime = p.Time
		return []Event{{Kind: EventWorldTime, Packet: pkt}}

	case *packets.Unknown:
		return []Event{{Kind: EventUnknownPacket, Packet: pkt}}
	}

	// Packets with no session-level effect (boards, signs, chests, combat
	// visuals) produce no event; consumers that need them can read the
	// decoded batch returned by Update.
	return nil
}

// warpLocalPlayer applies a server-directed relocation of the local player.
func (s *Session) warpLocalPlayer(pkt packets.Decoded, x, y float32, level string) []Event {
	s.Player.X = x
	s.Player.Y = y
	if level != "" {
		s.Player.Level = level
		s.Level = level
	}
	return []Event{{Kind: EventPlayerWarped, Packet: pkt, PlayerID: s.Player.ID}}
}

func (s *Session) remotePlayer(id uint16) *Player {
	p, ok := s.Players[id]
	if !ok {
		p = &Player{ID: id}
		s.Players[id] = p
	}
	return p
}

// applyProps folds a property list into a player and emits movement events
// when position changed.
func (s *Session) applyProps(target *Player, props []packets.Prop, local bool) []Event {
	var events []Event
	moved := false

	for _, prop := range props {
		switch prop.ID {
		case packets.PropNickname:
			target.Nickname = prop.Str
		case packets.PropMaxPower:
			target.MaxHearts = float32(prop.Int) / 2
		case packets.PropCurPower:
			target.Hearts = float32(prop.Int) / 2
		case packets.PropRupees:
			target.Rupees = prop.Int
		case packets.PropArrows:
			target.Arrows = prop.Int
		case packets.PropBombs:
			target.Bombs = prop.Int
		case packets.PropSprite:
			target.Sprite = prop.Int
		case packets.PropCurChat:
			target.Chat = prop.Str
		case packets.PropLevel:
			target.Level = prop.Str
			if local {
				s.Level = prop.Str
				events = append(events, Event{Kind: EventLevelChanged, Text: prop.Str})
			}
		case packets.PropAccount:
			target.Account = prop.Str
		case packets.PropPlayerID:
			if local {
				s.Player.ID = uint16(prop.Int)
			}
		case packets.PropX:
			target.X = float32(prop.Int) / 2
			moved = true
		case packets.PropY:
			target.Y = float32(prop.Int) / 2
			moved = true
		case packets.PropX2:
			target.X = float32(prop.Int) / 16
			moved = true
		case packets.PropY2:
			target.Y = float32(prop.Int) / 16
			moved = true
		}
	}

	if moved {
		events = append(events, Event{Kind: EventPlayerMoved, PlayerID: target.ID})
	}
	return events
}
