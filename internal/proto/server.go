package proto

// ServerMessage is an encodable server→client message.
type ServerMessage interface {
	ServerOp() ServerOpcode
	Encode(w *Writer)
}

// AuthChallenge opens the world handshake with the server's proof seed.
type AuthChallenge struct {
	ServerSeed uint32
}

func (*AuthChallenge) ServerOp() ServerOpcode { return SMSG_AUTH_CHALLENGE }

func (m *AuthChallenge) Encode(w *Writer) {
	w.WriteD(m.ServerSeed)
}

// Auth response results.
const (
	AuthOK             byte = 0x0C
	AuthFailed         byte = 0x0D
	AuthUnknownAccount byte = 0x15
)

type AuthResponse struct {
	Result byte
}

func (*AuthResponse) ServerOp() ServerOpcode { return SMSG_AUTH_RESPONSE }

func (m *AuthResponse) Encode(w *Writer) {
	w.WriteC(m.Result)
	if m.Result == AuthOK {
		w.WriteD(0) // billing time
		w.WriteC(0) // billing flags
		w.WriteD(0) // billing rested
	}
}

// Character-create result codes.
const (
	CharCreateSuccess     byte = 0x2E
	CharCreateError       byte = 0x2F
	CharCreateNameInUse   byte = 0x31
	CharCreateServerLimit byte = 0x3A
)

type CharCreateResult struct {
	Code byte
}

func (*CharCreateResult) ServerOp() ServerOpcode { return SMSG_CHAR_CREATE }

func (m *CharCreateResult) Encode(w *Writer) {
	w.WriteC(m.Code)
}

// Character-delete result codes.
const (
	CharDeleteSuccess byte = 0x39
	CharDeleteFailed  byte = 0x3A
)

type CharDeleteResult struct {
	Code byte
}

func (*CharDeleteResult) ServerOp() ServerOpcode { return SMSG_CHAR_DELETE }

func (m *CharDeleteResult) Encode(w *Writer) {
	w.WriteC(m.Code)
}

// CharEnumEntry is one character on the selection screen.
type CharEnumEntry struct {
	GUID       uint64
	Name       string
	Race       byte
	Class      byte
	Gender     byte
	Skin       byte
	Face       byte
	HairStyle  byte
	HairColor  byte
	FacialHair byte
	Level      byte
	Area       uint32
	Map        uint32
	Position   Vector3
	Equipment  []CharEnumItem // one per visible slot, zero DisplayID for empty
}

// CharEnumItem is the display info for one visible equipment slot.
type CharEnumItem struct {
	DisplayID uint32
	InvType   byte
}

type CharEnumResult struct {
	Characters []CharEnumEntry
}

func (*CharEnumResult) ServerOp() ServerOpcode { return SMSG_CHAR_ENUM }

func (m *CharEnumResult) Encode(w *Writer) {
	w.WriteC(byte(len(m.Characters)))
	for _, c := range m.Characters {
		w.WriteQ(c.GUID)
		w.WriteS(c.Name)
		w.WriteC(c.Race)
		w.WriteC(c.Class)
		w.WriteC(c.Gender)
		w.WriteC(c.Skin)
		w.WriteC(c.Face)
		w.WriteC(c.HairStyle)
		w.WriteC(c.HairColor)
		w.WriteC(c.FacialHair)
		w.WriteC(c.Level)
		w.WriteD(c.Area)
		w.WriteD(c.Map)
		writeVector3(w, c.Position)
		w.WriteD(0) // guild id
		w.WriteD(0) // flags
		w.WriteC(0) // first login
		w.WriteD(0) // pet display id
		w.WriteD(0) // pet level
		w.WriteD(0) // pet family
		for _, item := range c.Equipment {
			w.WriteD(item.DisplayID)
			w.WriteC(item.InvType)
		}
	}
}

// LoginVerifyWorld places the client in the world at login.
type LoginVerifyWorld struct {
	Map         uint32
	Position    Vector3
	Orientation float32
}

func (*LoginVerifyWorld) ServerOp() ServerOpcode { return SMSG_LOGIN_VERIFY_WORLD }

func (m *LoginVerifyWorld) Encode(w *Writer) {
	w.WriteD(m.Map)
	writeVector3(w, m.Position)
	w.WriteF(m.Orientation)
}

// LoginSetTimeSpeed carries the server clock and game-time rate.
type LoginSetTimeSpeed struct {
	GameTime uint32
	Rate     float32
}

func (*LoginSetTimeSpeed) ServerOp() ServerOpcode { return SMSG_LOGIN_SETTIMESPEED }

func (m *LoginSetTimeSpeed) Encode(w *Writer) {
	w.WriteD(m.GameTime)
	w.WriteF(m.Rate)
}

type TutorialFlags struct{}

func (*TutorialFlags) ServerOp() ServerOpcode { return SMSG_TUTORIAL_FLAGS }

func (m *TutorialFlags) Encode(w *Writer) {
	for i := 0; i < 8; i++ {
		w.WriteD(0xFFFFFFFF)
	}
}

type InitialSpells struct {
	Spells []uint16
}

func (*InitialSpells) ServerOp() ServerOpcode { return SMSG_INITIAL_SPELLS }

func (m *InitialSpells) Encode(w *Writer) {
	w.WriteC(0) // unknown
	w.WriteH(uint16(len(m.Spells)))
	for _, s := range m.Spells {
		w.WriteH(s)
		w.WriteH(0) // unknown
	}
	w.WriteH(0) // cooldown count
}

type AccountDataTimes struct{}

func (*AccountDataTimes) ServerOp() ServerOpcode { return SMSG_ACCOUNT_DATA_TIMES }

func (m *AccountDataTimes) Encode(w *Writer) {
	for i := 0; i < 32; i++ {
		w.WriteD(0)
	}
}

type TimeSyncReq struct {
	Counter uint32
}

func (*TimeSyncReq) ServerOp() ServerOpcode { return SMSG_TIME_SYNC_REQ }

func (m *TimeSyncReq) Encode(w *Writer) {
	w.WriteD(m.Counter)
}

// Logout result codes.
const (
	LogoutOK             uint32 = 0
	LogoutFailedInCombat uint32 = 1
)

type LogoutResponse struct {
	Result uint32
}

func (*LogoutResponse) ServerOp() ServerOpcode { return SMSG_LOGOUT_RESPONSE }

func (m *LogoutResponse) Encode(w *Writer) {
	w.WriteD(m.Result)
	w.WriteC(1) // instant logout
}

type LogoutComplete struct{}

func (*LogoutComplete) ServerOp() ServerOpcode { return SMSG_LOGOUT_COMPLETE }

func (m *LogoutComplete) Encode(w *Writer) {}

type NameQueryResponse struct {
	GUID   uint64
	Name   string
	Race   uint32
	Gender uint32
	Class  uint32
}

func (*NameQueryResponse) ServerOp() ServerOpcode { return SMSG_NAME_QUERY_RESPONSE }

func (m *NameQueryResponse) Encode(w *Writer) {
	w.WriteQ(m.GUID)
	w.WriteS(m.Name)
	w.WriteS("") // realm name, empty on same realm
	w.WriteD(m.Race)
	w.WriteD(m.Gender)
	w.WriteD(m.Class)
}

type ItemQueryResponse struct {
	ItemID    uint32
	Name      string
	DisplayID uint32
	Quality   uint32
	InvType   uint32
	ItemClass uint32
	SubClass  uint32
	MaxStack  uint32
}

func (*ItemQueryResponse) ServerOp() ServerOpcode { return SMSG_ITEM_QUERY_RESPONSE }

func (m *ItemQueryResponse) Encode(w *Writer) {
	w.WriteD(m.ItemID)
	w.WriteD(m.ItemClass)
	w.WriteD(m.SubClass)
	w.WriteS(m.Name)
	w.WriteS("")
	w.WriteS("")
	w.WriteS("")
	w.WriteD(m.DisplayID)
	w.WriteD(m.Quality)
	w.WriteD(0) // flags
	w.WriteD(0) // buy price
	w.WriteD(0) // sell price
	w.WriteD(m.InvType)
	w.WriteD(0xFFFFFFFF) // allowed class
	w.WriteD(0xFFFFFFFF) // allowed race
	w.WriteD(1)          // item level
	w.WriteD(0)          // required level
	w.WriteD(m.MaxStack)
}

type CreatureQueryResponse struct {
	Entry     uint32
	Name      string
	DisplayID uint32
}

func (*CreatureQueryResponse) ServerOp() ServerOpcode { return SMSG_CREATURE_QUERY_RESP }

func (m *CreatureQueryResponse) Encode(w *Writer) {
	w.WriteD(m.Entry)
	w.WriteS(m.Name)
	w.WriteS("")
	w.WriteS("")
	w.WriteS("")
	w.WriteS("") // subname
	w.WriteD(0)  // flags
	w.WriteD(0)  // creature type
	w.WriteD(0)  // family
	w.WriteD(0)  // rank
	w.WriteD(0)  // unknown
	w.WriteD(0)  // spell data id
	w.WriteD(m.DisplayID)
	w.WriteC(0) // civilian
	w.WriteC(0) // racial leader
}

// ChatMessage is an outgoing SMSG_MESSAGECHAT.
type ChatMessage struct {
	ChatType byte
	Language uint32
	Sender   uint64
	Message  string
}

func (*ChatMessage) ServerOp() ServerOpcode { return SMSG_MESSAGECHAT }

func (m *ChatMessage) Encode(w *Writer) {
	w.WriteC(m.ChatType)
	w.WriteD(m.Language)
	w.WriteQ(m.Sender)
	w.WriteD(uint32(len(m.Message)) + 1)
	w.WriteS(m.Message)
	w.WriteC(0) // chat tag
}

// UpdateObject replicates entity creation and field changes.
type UpdateObject struct {
	Entries []UpdateEntry
}

func (*UpdateObject) ServerOp() ServerOpcode { return SMSG_UPDATE_OBJECT }

func (m *UpdateObject) Encode(w *Writer) {
	w.WriteD(uint32(len(m.Entries)))
	w.WriteC(0) // no transport guids
	for _, e := range m.Entries {
		e.encode(w)
	}
}

type DestroyObject struct {
	GUID uint64
}

func (*DestroyObject) ServerOp() ServerOpcode { return SMSG_DESTROY_OBJECT }

func (m *DestroyObject) Encode(w *Writer) {
	w.WriteQ(m.GUID)
}

// MoveRelay forwards another player's movement, re-tagged with the mover's
// guid. The opcode on the wire matches the client opcode truncated to 16
// bits, which is how movement opcodes are mirrored.
type MoveRelay struct {
	Op   ClientOpcode
	GUID uint64
	Info MovementInfo
}

func (m *MoveRelay) ServerOp() ServerOpcode { return ServerOpcode(m.Op) }

func (m *MoveRelay) Encode(w *Writer) {
	writePackedGUID(w, m.GUID)
	writeMovementInfo(w, m.Info)
}

// MoveTeleportAck snaps the client to a new position on the same map.
type MoveTeleportAck struct {
	GUID    uint64
	Counter uint32
	Info    MovementInfo
}

func (*MoveTeleportAck) ServerOp() ServerOpcode { return MSG_MOVE_TELEPORT_ACK }

func (m *MoveTeleportAck) Encode(w *Writer) {
	writePackedGUID(w, m.GUID)
	w.WriteD(m.Counter)
	writeMovementInfo(w, m.Info)
}

// TransferPending starts a cross-map teleport; the client shows the loading
// screen and waits for NewWorld.
type TransferPending struct {
	Map uint32
}

func (*TransferPending) ServerOp() ServerOpcode { return SMSG_TRANSFER_PENDING }

func (m *TransferPending) Encode(w *Writer) {
	w.WriteD(m.Map)
}

// NewWorld completes a cross-map teleport with the destination.
type NewWorld struct {
	Map         uint32
	Position    Vector3
	Orientation float32
}

func (*NewWorld) ServerOp() ServerOpcode { return SMSG_NEW_WORLD }

func (m *NewWorld) Encode(w *Writer) {
	w.WriteD(m.Map)
	writeVector3(w, m.Position)
	w.WriteF(m.Orientation)
}

type AttackStart struct {
	Attacker uint64
	Victim   uint64
}

func (*AttackStart) ServerOp() ServerOpcode { return SMSG_ATTACKSTART }

func (m *AttackStart) Encode(w *Writer) {
	w.WriteQ(m.Attacker)
	w.WriteQ(m.Victim)
}

type AttackStopped struct {
	Attacker uint64
	Victim   uint64
}

func (*AttackStopped) ServerOp() ServerOpcode { return SMSG_ATTACKSTOP }

func (m *AttackStopped) Encode(w *Writer) {
	writePackedGUID(w, m.Attacker)
	writePackedGUID(w, m.Victim)
	w.WriteD(0) // unknown
}

// AttackerStateUpdate reports one resolved melee swing.
type AttackerStateUpdate struct {
	Attacker uint64
	Victim   uint64
	Damage   uint32
}

func (*AttackerStateUpdate) ServerOp() ServerOpcode { return SMSG_ATTACKERSTATEUPDATE }

func (m *AttackerStateUpdate) Encode(w *Writer) {
	w.WriteD(0x02) // hit info: affects victim
	writePackedGUID(w, m.Attacker)
	writePackedGUID(w, m.Victim)
	w.WriteD(m.Damage)
	w.WriteC(1) // one damage component
	w.WriteD(0) // spell school: physical
	w.WriteF(float32(m.Damage))
	w.WriteD(m.Damage)
	w.WriteD(0) // absorbed
	w.WriteD(0) // resisted
	w.WriteD(0) // target state: intact
	w.WriteD(0)
	w.WriteD(0)
	w.WriteD(0) // blocked
}

// ItemPushResult announces a looted or created item landing in a bag.
type ItemPushResult struct {
	Player  uint64
	Created bool
	Slot    byte
	ItemID  uint32
	Count   uint32
	Total   uint32
}

func (*ItemPushResult) ServerOp() ServerOpcode { return SMSG_ITEM_PUSH_RESULT }

func (m *ItemPushResult) Encode(w *Writer) {
	w.WriteQ(m.Player)
	w.WriteD(0) // looted, not from npc
	if m.Created {
		w.WriteD(1)
	} else {
		w.WriteD(0)
	}
	w.WriteD(1)    // show in chat
	w.WriteC(0xFF) // backpack
	w.WriteD(uint32(m.Slot))
	w.WriteD(m.ItemID)
	w.WriteD(0) // suffix factor
	w.WriteD(0) // random property
	w.WriteD(m.Count)
	w.WriteD(m.Total)
}

type QueryTimeResponse struct {
	Time uint32
}

func (*QueryTimeResponse) ServerOp() ServerOpcode { return SMSG_QUERY_TIME_RESPONSE }

func (m *QueryTimeResponse) Encode(w *Writer) {
	w.WriteD(m.Time)
}

type Pong struct {
	Sequence uint32
}

func (*Pong) ServerOp() ServerOpcode { return SMSG_PONG }

func (m *Pong) Encode(w *Writer) {
	w.WriteD(m.Sequence)
}

// ForceRunSpeedChange sets the client's run speed. The counter must increase
// per change so the client can ack the right one.
type ForceRunSpeedChange struct {
	GUID    uint64
	Counter uint32
	Speed   float32
}

func (*ForceRunSpeedChange) ServerOp() ServerOpcode { return SMSG_FORCE_RUN_SPEED_CHANGE }

func (m *ForceRunSpeedChange) Encode(w *Writer) {
	writePackedGUID(w, m.GUID)
	w.WriteD(m.Counter)
	w.WriteF(m.Speed)
}

// SplineSetRunSpeed mirrors a speed change to observers.
type SplineSetRunSpeed struct {
	GUID  uint64
	Speed float32
}

func (*SplineSetRunSpeed) ServerOp() ServerOpcode { return SMSG_SPLINE_SET_RUN_SPEED }

func (m *SplineSetRunSpeed) Encode(w *Writer) {
	writePackedGUID(w, m.GUID)
	w.WriteF(m.Speed)
}
