// Package packets defines the Reborn protocol's opcode catalog and the
// decoded representations of every studied packet type.
package packets

// ID is a packet identifier after the wire bias has been removed.
type ID uint8

// Category is a documentation grouping for opcodes. It is metadata only
// and never gates dispatch.
type Category string

const (
	CategoryCore     Category = "core"
	CategorySystem   Category = "system"
	CategoryFiles    Category = "files"
	CategoryMovement Category = "movement"
	CategoryNPCs     Category = "npcs"
	CategoryUI       Category = "ui"
	CategoryCombat   Category = "combat"
	CategoryUnknown  Category = "unknown"
)

// Server to client opcodes.
const (
	PLOLevelBoard       ID = 0
	PLOLevelLink        ID = 1
	PLOBaddyProps       ID = 2
	PLONPCProps         ID = 3
	PLOLevelChest       ID = 4
	PLOLevelSign        ID = 5
	PLOLevelName        ID = 6
	PLOBoardModify      ID = 7
	PLOOtherPlayerProps ID = 8
	PLOPlayerProps      ID = 9
	PLOIsLeader         ID = 10
	PLOBombAdd          ID = 11
	PLOBombDel          ID = 12
	PLOToAll            ID = 13
	PLOPlayerWarp       ID = 14
	PLOWarpFailed       ID = 15
	PLODiscMessage      ID = 16
	PLOHorseAdd         ID = 17
	PLOHorseDel         ID = 18
	PLOArrowAdd         ID = 19
	PLOFireSpy          ID = 20
	PLOThrowCarried     ID = 21
	PLOItemAdd          ID = 22
	PLOItemDel          ID = 23
	PLONPCMoved         ID = 24
	PLOSignature        ID = 25
	PLONPCAction        ID = 26
	PLOBaddyHurt        ID = 27
	PLOFlagSet          ID = 28
	PLONPCDel           ID = 29
	PLOFileSendFailed   ID = 30
	PLOFlagDel          ID = 31
	PLOShowImg          ID = 32
	PLONPCWeaponAdd     ID = 33
	PLONPCWeaponDel     ID = 34
	PLOAdminMessage     ID = 35
	PLOExplosion        ID = 36
	PLOPrivateMessage   ID = 37
	PLOPushAway         ID = 38
	PLOLevelModTime     ID = 39
	PLOHurtPlayer       ID = 40
	PLOStartMessage     ID = 41
	PLONewWorldTime     ID = 42
	PLODefaultWeapon    ID = 43
	PLOHasNPCServer     ID = 44
	PLOFileUpToDate     ID = 45
	PLOHitObjects       ID = 46
	PLOStaffGuilds      ID = 47
	PLOTriggerAction    ID = 48
	PLOPlayerWarp2      ID = 49
	PLOAddPlayer        ID = 55
	PLODelPlayer        ID = 56
	PLOLargeFileStart   ID = 68
	PLOLargeFileEnd     ID = 69
	PLOProfile          ID = 75
	PLOServerText       ID = 82
	PLOLargeFileSize    ID = 84
	PLORawData          ID = 100
	PLOBoardPacket      ID = 101
	PLOFile             ID = 102
	PLONPCByteCode      ID = 131
	PLONPCDel2          ID = 150
	PLOHideNPCs         ID = 151
	PLOSay2             ID = 153
	PLOFreezePlayer     ID = 154
	PLOUnfreezePlayer   ID = 155
	PLOSetActiveLevel   ID = 156
	PLOMove             ID = 165
	PLOMove2            ID = 166
	PLOUnknown168       ID = 168
	PLOMinimap          ID = 172
	PLOGhostText        ID = 173
	PLOGhostIcon        ID = 174
	PLOFullStop         ID = 176
	PLOServerWarp       ID = 178
	PLORPGWindow        ID = 179
	PLOStatusList       ID = 180
	PLOListProcesses    ID = 182
)

// Client to server opcodes.
const (
	PLILevelWarp      ID = 0
	PLIBoardModify    ID = 1
	PLIPlayerProps    ID = 2
	PLIBombAdd        ID = 4
	PLIToAll          ID = 6
	PLIHorseAdd       ID = 7
	PLIArrowAdd       ID = 9
	PLIFireSpy        ID = 10
	PLIItemAdd        ID = 12
	PLIItemDel        ID = 13
	PLIFlagSet        ID = 18
	PLIFlagDel        ID = 19
	PLIOpenChest      ID = 20
	PLIWantFile       ID = 23
	PLIShowImg        ID = 24
	PLIHurtPlayer     ID = 26
	PLIExplosion      ID = 27
	PLIPrivateMessage ID = 28
	PLIUpdateFile     ID = 34
	PLILanguage       ID = 37
	PLITriggerAction  ID = 38
	PLIShoot          ID = 40
	PLIRequestText    ID = 42
	PLISendText       ID = 43
)

// FileTransferOpcodes are the server opcodes that cooperate to reconstruct
// one logical blob; their payloads route through the transfer accumulator
// instead of emitting immediate events.
func IsFileTransferOpcode(id ID) bool {
	switch id {
	case PLOLargeFileStart, PLOLargeFileSize, PLOFile, PLORawData, PLOLargeFileEnd:
		return true
	}
	return false
}
