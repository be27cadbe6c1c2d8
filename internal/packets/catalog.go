package packets

import "fmt"

// Definition is one entry of the static packet catalog: an identifier, the
// name it is documented under, and its documentation category. The catalog
// is intentionally incomplete; ids that have been observed on the wire but
// whose layout has not been studied are catalogued with CategoryUnknown and
// decode to the opaque variant.
type Definition struct {
	ID       ID
	Name     string
	Category Category
}

// catalogEntries is the full documented catalog for the server-to-client
// direction. Collected from protocol captures across the 2.x and 6.x
// release lines.
var catalogEntries = []Definition{
	{PLOLevelBoard, "PLO_LEVELBOARD", CategoryCore},
	{PLOLevelLink, "PLO_LEVELLINK", CategoryCore},
	{PLOBaddyProps, "PLO_BADDYPROPS", CategoryCombat},
	{PLONPCProps, "PLO_NPCPROPS", CategoryNPCs},
	{PLOLevelChest, "PLO_LEVELCHEST", CategoryCore},
	{PLOLevelSign, "PLO_LEVELSIGN", CategoryUI},
	{PLOLevelName, "PLO_LEVELNAME", CategoryCore},
	{PLOBoardModify, "PLO_BOARDMODIFY", CategoryCore},
	{PLOOtherPlayerProps, "PLO_OTHERPLPROPS", CategoryMovement},
	{PLOPlayerProps, "PLO_PLAYERPROPS", CategoryCore},
	{PLOIsLeader, "PLO_ISLEADER", CategorySystem},
	{PLOBombAdd, "PLO_BOMBADD", CategoryCombat},
	{PLOBombDel, "PLO_BOMBDEL", CategoryCombat},
	{PLOToAll, "PLO_TOALL", CategoryUI},
	{PLOPlayerWarp, "PLO_PLAYERWARP", CategoryMovement},
	{PLOWarpFailed, "PLO_WARPFAILED", CategoryMovement},
	{PLODiscMessage, "PLO_DISCMESSAGE", CategorySystem},
	{PLOHorseAdd, "PLO_HORSEADD", CategoryNPCs},
	{PLOHorseDel, "PLO_HORSEDEL", CategoryNPCs},
	{PLOArrowAdd, "PLO_ARROWADD", CategoryCombat},
	{PLOFireSpy, "PLO_FIRESPY", CategoryCombat},
	{PLOThrowCarried, "PLO_THROWCARRIED", CategoryCombat},
	{PLOItemAdd, "PLO_ITEMADD", CategoryCore},
	{PLOItemDel, "PLO_ITEMDEL", CategoryCore},
	{PLONPCMoved, "PLO_NPCMOVED", CategoryNPCs},
	{PLOSignature, "PLO_SIGNATURE", CategorySystem},
	{PLONPCAction, "PLO_NPCACTION", CategoryNPCs},
	{PLOBaddyHurt, "PLO_BADDYHURT", CategoryCombat},
	{PLOFlagSet, "PLO_FLAGSET", CategorySystem},
	{PLONPCDel, "PLO_NPCDEL", CategoryNPCs},
	{PLOFileSendFailed, "PLO_FILESENDFAILED", CategoryFiles},
	{PLOFlagDel, "PLO_FLAGDEL", CategorySystem},
	{PLOShowImg, "PLO_SHOWIMG", CategoryUI},
	{PLONPCWeaponAdd, "PLO_NPCWEAPONADD", CategoryNPCs},
	{PLONPCWeaponDel, "PLO_NPCWEAPONDEL", CategoryNPCs},
	{PLOAdminMessage, "PLO_RC_ADMINMESSAGE", CategorySystem},
	{PLOExplosion, "PLO_EXPLOSION", CategoryCombat},
	{PLOPrivateMessage, "PLO_PRIVATEMESSAGE", CategoryUI},
	{PLOPushAway, "PLO_PUSHAWAY", CategoryCombat},
	{PLOLevelModTime, "PLO_LEVELMODTIME", CategoryCore},
	{PLOHurtPlayer, "PLO_HURTPLAYER", CategoryCombat},
	{PLOStartMessage, "PLO_STARTMESSAGE", CategoryUI},
	{PLONewWorldTime, "PLO_NEWWORLDTIME", CategorySystem},
	{PLODefaultWeapon, "PLO_DEFAULTWEAPON", CategoryCombat},
	{PLOHasNPCServer, "PLO_HASNPCSERVER", CategorySystem},
	{PLOFileUpToDate, "PLO_FILEUPTODATE", CategoryFiles},
	{PLOHitObjects, "PLO_HITOBJECTS", CategoryCombat},
	{PLOStaffGuilds, "PLO_STAFFGUILDS", CategorySystem},
	{PLOTriggerAction, "PLO_TRIGGERACTION", CategorySystem},
	{PLOPlayerWarp2, "PLO_PLAYERWARP2", CategoryMovement},
	{50, "PLO_UNKNOWN50", CategoryUnknown},
	{51, "PLO_UNKNOWN51", CategoryUnknown},
	{52, "PLO_UNKNOWN52", CategoryUnknown},
	{53, "PLO_UNKNOWN53", CategoryUnknown},
	{54, "PLO_UNKNOWN54", CategoryUnknown},
	{PLOAddPlayer, "PLO_ADDPLAYER", CategoryCore},
	{PLODelPlayer, "PLO_DELPLAYER", CategoryCore},
	{57, "PLO_UNKNOWN57", CategoryUnknown},
	{58, "PLO_UNKNOWN58", CategoryUnknown},
	{59, "PLO_UNKNOWN59", CategoryUnknown},
	{60, "PLO_UNKNOWN60", CategoryUnknown},
	{61, "PLO_UNKNOWN61", CategoryUnknown},
	{62, "PLO_UNKNOWN62", CategoryUnknown},
	{63, "PLO_UNKNOWN63", CategoryUnknown},
	{64, "PLO_UNKNOWN64", CategoryUnknown},
	{65, "PLO_UNKNOWN65", CategoryUnknown},
	{66, "PLO_UNKNOWN66", CategoryUnknown},
	{67, "PLO_UNKNOWN67", CategoryUnknown},
	{PLOLargeFileStart, "PLO_LARGEFILESTART", CategoryFiles},
	{PLOLargeFileEnd, "PLO_LARGEFILEEND", CategoryFiles},
	{70, "PLO_UNKNOWN70", CategoryUnknown},
	{71, "PLO_UNKNOWN71", CategoryUnknown},
	{72, "PLO_UNKNOWN72", CategoryUnknown},
	{73, "PLO_UNKNOWN73", CategoryUnknown},
	{74, "PLO_UNKNOWN74", CategoryUnknown},
	{PLOProfile, "PLO_PROFILE", CategoryUI},
	{76, "PLO_UNKNOWN76", CategoryUnknown},
	{77, "PLO_UNKNOWN77", CategoryUnknown},
	{78, "PLO_UNKNOWN78", CategoryUnknown},
	{79, "PLO_UNKNOWN79", CategoryUnknown},
	{80, "PLO_UNKNOWN80", CategoryUnknown},
	{81, "PLO_UNKNOWN81", CategoryUnknown},
	{PLOServerText, "PLO_SERVERTEXT", CategorySystem},
	{83, "PLO_UNKNOWN83", CategoryUnknown},
	{PLOLargeFileSize, "PLO_LARGEFILESIZE", CategoryFiles},
	{85, "PLO_UNKNOWN85", CategoryUnknown},
	{86, "PLO_UNKNOWN86", CategoryUnknown},
	{87, "PLO_UNKNOWN87", CategoryUnknown},
	{88, "PLO_UNKNOWN88", CategoryUnknown},
	{89, "PLO_UNKNOWN89", CategoryUnknown},
	{90, "PLO_UNKNOWN90", CategoryUnknown},
	{91, "PLO_UNKNOWN91", CategoryUnknown},
	{92, "PLO_UNKNOWN92", CategoryUnknown},
	{93, "PLO_UNKNOWN93", CategoryUnknown},
	{PLORawData, "PLO_RAWDATA", CategoryFiles},
	{PLOBoardPacket, "PLO_BOARDPACKET", CategoryFiles},
	{PLOFile, "PLO_FILE", CategoryFiles},
	{PLONPCByteCode, "PLO_NPCBYTECODE", CategoryNPCs},
	{PLONPCDel2, "PLO_NPCDEL2", CategoryNPCs},
	{PLOHideNPCs, "PLO_HIDENPCS", CategoryNPCs},
	{PLOSay2, "PLO_SAY2", CategoryUI},
	{PLOFreezePlayer, "PLO_FREEZEPLAYER", CategorySystem},
	{PLOUnfreezePlayer, "PLO_UNFREEZEPLAYER", CategorySystem},
	{PLOSetActiveLevel, "PLO_SETACTIVELEVEL", CategoryCore},
	{PLOMove, "PLO_MOVE", CategoryMovement},
	{PLOMove2, "PLO_MOVE2", CategoryMovement},
	{PLOUnknown168, "PLO_UNKNOWN168", CategoryUnknown},
	{PLOMinimap, "PLO_MINIMAP", CategoryUI},
	{PLOGhostText, "PLO_GHOSTTEXT", CategoryUI},
	{PLOGhostIcon, "PLO_GHOSTICON", CategoryUI},
	{PLOFullStop, "PLO_FULLSTOP", CategorySystem},
	{PLOServerWarp, "PLO_SERVERWARP", CategorySystem},
	{PLORPGWindow, "PLO_RPGWINDOW", CategoryUI},
	{PLOStatusList, "PLO_STATUSLIST", CategoryUI},
	{PLOListProcesses, "PLO_LISTPROCESSES", CategorySystem},
}

// catalog is the immutable id lookup table, built once at init and treated
// as read-only shared data from then on.
var catalog [256]*Definition

func init() {
	for i := range catalogEntries {
		def := &catalogEntries[i]
		if catalog[def.ID] != nil {
			panic(fmt.Sprintf("duplicate catalog entry for opcode %d", def.ID))
		}
		catalog[def.ID] = def
	}
}

// Lookup returns the catalog definition for an opcode. Ids absent from the
// catalog return a pass-through definition with CategoryUnknown; Lookup
// never fails.
func Lookup(id ID) Definition {
	if def := catalog[id]; def != nil {
		return *def
	}
	return Definition{ID: id, Name: fmt.Sprintf("PLO_UNKNOWN%d", id), Category: CategoryUnknown}
}

// Catalog returns a copy of every documented definition, in id order.
func Catalog() []Definition {
	out := make([]Definition, len(catalogEntries))
	copy(out, catalogEntries)
	return out
}

// CatalogSize is the number of documented packet types.
func CatalogSize() int {
	return len(catalogEntries)
}
