package packets

// Decoded is the closed set of typed packet representations produced by the
// dispatcher. Every variant reports the opcode it was decoded from; ids
// without a studied layout surface as *Unknown.
type Decoded interface {
	Opcode() ID
}

// Unknown is the opaque pass-through variant for any opcode the catalog has
// no decoder for. Payload is the packet body exactly as received.
type Unknown struct {
	ID      ID
	Payload []byte
}

func (p *Unknown) Opcode() ID { return p.ID }

// PlayerProps carries property updates for the local player.
type PlayerProps struct {
	Props []Prop
}

func (p *PlayerProps) Opcode() ID { return PLOPlayerProps }

// OtherPlayerProps carries property updates for a remote player.
type OtherPlayerProps struct {
	PlayerID uint16
	Props    []Prop
}

func (p *OtherPlayerProps) Opcode() ID { return PLOOtherPlayerProps }

// AddPlayer announces a remote player entering the session's view.
type AddPlayer struct {
	PlayerID uint16
	Account  string
	Props    []Prop
}

func (p *AddPlayer) Opcode() ID { return PLOAddPlayer }

// DelPlayer announces a remote player leaving the session's view.
type DelPlayer struct {
	PlayerID uint16
}

func (p *DelPlayer) Opcode() ID { return PLODelPlayer }

// PlayerWarp relocates the local player. X and Y are in tiles.
type PlayerWarp struct {
	X, Y  float32
	Level string
}

func (p *PlayerWarp) Opcode() ID { return PLOPlayerWarp }

// PlayerWarp2 is the pixel-precision warp used by newer release lines.
type PlayerWarp2 struct {
	X, Y  float32
	Level string
}

func (p *PlayerWarp2) Opcode() ID { return PLOPlayerWarp2 }

// WarpFailed reports a rejected warp attempt back to the named level.
type WarpFailed struct {
	Level string
}

func (p *WarpFailed) Opcode() ID { return PLOWarpFailed }

// LevelName announces the level the session is entering.
type LevelName struct {
	Name string
}

func (p *LevelName) Opcode() ID { return PLOLevelName }

// ToAll is public chat from a remote player.
type ToAll struct {
	PlayerID uint16
	Message  string
}

func (p *ToAll) Opcode() ID { return PLOToAll }

// PrivateMessage is a direct message from a remote player.
type PrivateMessage struct {
	PlayerID uint16
	Message  string
}

func (p *PrivateMessage) Opcode() ID { return PLOPrivateMessage }

// ServerText is an out-of-band text notification from the server.
type ServerText struct {
	Text string
}

func (p *ServerText) Opcode() ID { return PLOServerText }

// AdminMessage is a broadcast from a remote administrator.
type AdminMessage struct {
	Message string
}

func (p *AdminMessage) Opcode() ID { return PLOAdminMessage }

// DiscMessage carries the server's reason for an impending disconnect,
// including login rejections.
type DiscMessage struct {
	Message string
}

func (p *DiscMessage) Opcode() ID { return PLODiscMessage }

// Signature acknowledges a successful login.
type Signature struct {
	ID uint8
}

func (p *Signature) Opcode() ID { return PLOSignature }

// FlagSet sets a named server flag, optionally with a value.
type FlagSet struct {
	Name  string
	Value string
}

func (p *FlagSet) Opcode() ID { return PLOFlagSet }

// FlagDel clears a named server flag.
type FlagDel struct {
	Name string
}

func (p *FlagDel) Opcode() ID { return PLOFlagDel }

// NPCProps carries property updates for an NPC. The property layout varies
// by server scriptset, so the body is kept raw past the id.
type NPCProps struct {
	NPCID uint32
	Props []byte
}

func (p *NPCProps) Opcode() ID { return PLONPCProps }

// NPCMoved reports an NPC position change.
type NPCMoved struct {
	NPCID uint32
}

func (p *NPCMoved) Opcode() ID { return PLONPCMoved }

// NPCDel removes an NPC from the level.
type NPCDel struct {
	NPCID uint32
}

func (p *NPCDel) Opcode() ID { return PLONPCDel }

// NPCAction triggers a scripted NPC action.
type NPCAction struct {
	NPCID uint32
	Data  []byte
}

func (p *NPCAction) Opcode() ID { return PLONPCAction }

// LevelBoard is the raw 64x64 tile board for the current level.
type LevelBoard struct {
	Data []byte
}

func (p *LevelBoard) Opcode() ID { return PLOLevelBoard }

// BoardModify patches a rectangle of the current level's board.
type BoardModify struct {
	X, Y, Width, Height uint8
	Tiles               []byte
}

func (p *BoardModify) Opcode() ID { return PLOBoardModify }

// LevelLink declares a warp link within the current level.
type LevelLink struct {
	Spec string
}

func (p *LevelLink) Opcode() ID { return PLOLevelLink }

// LevelSign places a readable sign in the current level.
type LevelSign struct {
	X, Y uint8
	Text string
}

func (p *LevelSign) Opcode() ID { return PLOLevelSign }

// LevelChest places a chest with an item in the current level.
type LevelChest struct {
	X, Y uint8
	Item uint8
}

func (p *LevelChest) Opcode() ID { return PLOLevelChest }

// HurtPlayer reports incoming damage to the local player in half hearts.
type HurtPlayer struct {
	PlayerID uint16
	Damage   uint8
}

func (p *HurtPlayer) Opcode() ID { return PLOHurtPlayer }

// Explosion reports a bomb detonation.
type Explosion struct {
	X, Y  uint8
	Power uint8
}

func (p *Explosion) Opcode() ID { return PLOExplosion }

// NewWorldTime is the server's world clock broadcast.
type NewWorldTime struct {
	Time uint32
}

func (p *NewWorldTime) Opcode() ID { return PLONewWorldTime }

// IsLeader tells the client it is the first player on the server.
type IsLeader struct{}

func (p *IsLeader) Opcode() ID { return PLOIsLeader }

// FileUpToDate confirms a requested file needs no update.
type FileUpToDate struct {
	Filename string
}

func (p *FileUpToDate) Opcode() ID { return PLOFileUpToDate }

// FileSendFailed reports that a requested file could not be sent.
type FileSendFailed struct {
	Filename string
}

func (p *FileSendFailed) Opcode() ID { return PLOFileSendFailed }

// LargeFileStart opens a multi-packet file transfer.
type LargeFileStart struct {
	Filename string
}

func (p *LargeFileStart) Opcode() ID { return PLOLargeFileStart }

// LargeFileSize declares the total byte count of the active transfer.
type LargeFileSize struct {
	Size uint32
}

func (p *LargeFileSize) Opcode() ID { return PLOLargeFileSize }

// LargeFileEnd finalizes a multi-packet file transfer.
type LargeFileEnd struct {
	Filename string
}

func (p *LargeFileEnd) Opcode() ID { return PLOLargeFileEnd }

// File is a single-packet file, or one named chunk of an active transfer.
type File struct {
	ModTime  uint32
	Filename string
	Data     []byte
}

func (p *File) Opcode() ID { return PLOFile }

// RawData is an anonymous chunk appended to the active transfer.
type RawData struct {
	Data []byte
}

func (p *RawData) Opcode() ID { return PLORawData }

// CompletedFile is a synthesized record for a fully reassembled transfer.
// It never appears on the wire; the framer emits it once a LargeFileEnd
// passes the size check.
type CompletedFile struct {
	Filename string
	ModTime  uint32
	Data     []byte
}

func (p *CompletedFile) Opcode() ID { return PLOFile }
