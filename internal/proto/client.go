package proto

// ClientMessage is a decoded client→server message. The read loop decodes
// frames into these before they reach the tick loop, so handlers never touch
// raw bytes.
type ClientMessage interface {
	Opcode() ClientOpcode
}

// AuthSession carries the world-session proof sent right after the client
// receives the auth challenge.
type AuthSession struct {
	Build       uint32
	ServerID    uint32
	Account     string
	ClientSeed  uint32
	ClientProof [20]byte
}

func (*AuthSession) Opcode() ClientOpcode { return CMSG_AUTH_SESSION }

type CharCreate struct {
	Name       string
	Race       byte
	Class      byte
	Gender     byte
	Skin       byte
	Face       byte
	HairStyle  byte
	HairColor  byte
	FacialHair byte
	Outfit     byte
}

func (*CharCreate) Opcode() ClientOpcode { return CMSG_CHAR_CREATE }

type CharEnum struct{}

func (*CharEnum) Opcode() ClientOpcode { return CMSG_CHAR_ENUM }

type CharDelete struct {
	GUID uint64
}

func (*CharDelete) Opcode() ClientOpcode { return CMSG_CHAR_DELETE }

type PlayerLogin struct {
	GUID uint64
}

func (*PlayerLogin) Opcode() ClientOpcode { return CMSG_PLAYER_LOGIN }

type LogoutRequest struct{}

func (*LogoutRequest) Opcode() ClientOpcode { return CMSG_LOGOUT_REQUEST }

type NameQuery struct {
	GUID uint64
}

func (*NameQuery) Opcode() ClientOpcode { return CMSG_NAME_QUERY }

type ItemQuerySingle struct {
	ItemID uint32
	GUID   uint64
}

func (*ItemQuerySingle) Opcode() ClientOpcode { return CMSG_ITEM_QUERY_SINGLE }

type CreatureQuery struct {
	Entry uint32
	GUID  uint64
}

func (*CreatureQuery) Opcode() ClientOpcode { return CMSG_CREATURE_QUERY }

// Chat types as sent in CMSG_MESSAGECHAT.
const (
	ChatTypeSay     uint32 = 0x00
	ChatTypeParty   uint32 = 0x02
	ChatTypeGuild   uint32 = 0x03
	ChatTypeYell    uint32 = 0x05
	ChatTypeWhisper uint32 = 0x06
	ChatTypeEmote   uint32 = 0x08
	ChatTypeSystem  uint32 = 0x0A
	ChatTypeChannel uint32 = 0x0E

	// ChatTypeWhisperInform is the sender-side echo of a delivered whisper.
	ChatTypeWhisperInform uint32 = 0x07
)

// MessageChat is a chat submission. Target is only present for whispers and
// channel messages.
type MessageChat struct {
	ChatType uint32
	Language uint32
	Target   string
	Message  string
}

func (*MessageChat) Opcode() ClientOpcode { return CMSG_MESSAGECHAT }

// Move is any of the movement opcodes. They all share the same body and only
// differ in which opcode tags the frame, so one message type carries them all
// and keeps the opcode alongside the movement block for relaying.
type Move struct {
	Op   ClientOpcode
	Info MovementInfo
}

func (m *Move) Opcode() ClientOpcode { return m.Op }

// WorldportAck confirms the client finished loading after SMSG_NEW_WORLD.
type WorldportAck struct{}

func (*WorldportAck) Opcode() ClientOpcode { return MSG_MOVE_WORLDPORT_ACK }

// WorldTeleport is the debug teleport clients with GM flags can issue.
type WorldTeleport struct {
	Time        uint32
	Map         uint32
	Position    Vector3
	Orientation float32
}

func (*WorldTeleport) Opcode() ClientOpcode { return CMSG_WORLD_TELEPORT }

type TeleportToUnit struct {
	Name string
}

func (*TeleportToUnit) Opcode() ClientOpcode { return CMSG_TELEPORT_TO_UNIT }

type AreaTrigger struct {
	TriggerID uint32
}

func (*AreaTrigger) Opcode() ClientOpcode { return CMSG_AREATRIGGER }

type SwapInvItem struct {
	DestSlot byte
	SrcSlot  byte
}

func (*SwapInvItem) Opcode() ClientOpcode { return CMSG_SWAP_INV_ITEM }

type SetSelection struct {
	Target uint64
}

func (*SetSelection) Opcode() ClientOpcode { return CMSG_SET_SELECTION }

type AttackSwing struct {
	GUID uint64
}

func (*AttackSwing) Opcode() ClientOpcode { return CMSG_ATTACKSWING }

type AttackStop struct{}

func (*AttackStop) Opcode() ClientOpcode { return CMSG_ATTACKSTOP }

type QueryTime struct{}

func (*QueryTime) Opcode() ClientOpcode { return CMSG_QUERY_TIME }

type Ping struct {
	Sequence uint32
	Latency  uint32
}

func (*Ping) Opcode() ClientOpcode { return CMSG_PING }

// Unhandled wraps any opcode the server has no decoder for. Handlers log it
// at debug level and move on.
type Unhandled struct {
	Op   ClientOpcode
	Data []byte
}

func (u *Unhandled) Opcode() ClientOpcode { return u.Op }

// movementOpcodes lists every opcode that carries a bare movement block and
// gets relayed to nearby players re-tagged with the mover's guid.
var movementOpcodes = map[ClientOpcode]bool{
	MSG_MOVE_START_FORWARD:  true,
	MSG_MOVE_START_BACKWARD: true,
	MSG_MOVE_STOP:           true,
	MSG_MOVE_START_STRAFE_L: true,
	MSG_MOVE_START_STRAFE_R: true,
	MSG_MOVE_STOP_STRAFE:    true,
	MSG_MOVE_JUMP:           true,
	MSG_MOVE_START_TURN_L:   true,
	MSG_MOVE_START_TURN_R:   true,
	MSG_MOVE_STOP_TURN:      true,
	MSG_MOVE_START_PITCH_UP: true,
	MSG_MOVE_START_PITCH_DN: true,
	MSG_MOVE_STOP_PITCH:     true,
	MSG_MOVE_SET_RUN_MODE:   true,
	MSG_MOVE_SET_WALK_MODE:  true,
	MSG_MOVE_FALL_LAND:      true,
	MSG_MOVE_START_SWIM:     true,
	MSG_MOVE_STOP_SWIM:      true,
	MSG_MOVE_SET_FACING:     true,
	MSG_MOVE_SET_PITCH:      true,
	CMSG_MOVE_FALL_RESET:    true,
}

// IsMovement reports whether op carries a movement block.
func IsMovement(op ClientOpcode) bool {
	return movementOpcodes[op]
}

// DecodeClient turns a framed opcode and body into a typed message. Unknown
// opcodes come back as *Unhandled rather than an error so one stray opcode
// never kills a session.
func DecodeClient(op ClientOpcode, body []byte) ClientMessage {
	r := NewReader(body)
	switch {
	case IsMovement(op):
		return &Move{Op: op, Info: readMovementInfo(r)}
	}
	switch op {
	case CMSG_AUTH_SESSION:
		msg := &AuthSession{
			Build:    r.ReadD(),
			ServerID: r.ReadD(),
			Account:  r.ReadS(),
		}
		msg.ClientSeed = r.ReadD()
		copy(msg.ClientProof[:], r.ReadBytes(20))
		return msg
	case CMSG_CHAR_CREATE:
		return &CharCreate{
			Name:       r.ReadS(),
			Race:       r.ReadC(),
			Class:      r.ReadC(),
			Gender:     r.ReadC(),
			Skin:       r.ReadC(),
			Face:       r.ReadC(),
			HairStyle:  r.ReadC(),
			HairColor:  r.ReadC(),
			FacialHair: r.ReadC(),
			Outfit:     r.ReadC(),
		}
	case CMSG_CHAR_ENUM:
		return &CharEnum{}
	case CMSG_CHAR_DELETE:
		return &CharDelete{GUID: r.ReadQ()}
	case CMSG_PLAYER_LOGIN:
		return &PlayerLogin{GUID: r.ReadQ()}
	case CMSG_LOGOUT_REQUEST:
		return &LogoutRequest{}
	case CMSG_NAME_QUERY:
		return &NameQuery{GUID: r.ReadQ()}
	case CMSG_ITEM_QUERY_SINGLE:
		return &ItemQuerySingle{ItemID: r.ReadD(), GUID: r.ReadQ()}
	case CMSG_CREATURE_QUERY:
		return &CreatureQuery{Entry: r.ReadD(), GUID: r.ReadQ()}
	case CMSG_MESSAGECHAT:
		msg := &MessageChat{ChatType: r.ReadD(), Language: r.ReadD()}
		if msg.ChatType == ChatTypeWhisper || msg.ChatType == ChatTypeChannel {
			msg.Target = r.ReadS()
		}
		msg.Message = r.ReadS()
		return msg
	case MSG_MOVE_WORLDPORT_ACK:
		return &WorldportAck{}
	case CMSG_WORLD_TELEPORT:
		return &WorldTeleport{
			Time:        r.ReadD(),
			Map:         r.ReadD(),
			Position:    readVector3(r),
			Orientation: r.ReadF(),
		}
	case CMSG_TELEPORT_TO_UNIT:
		return &TeleportToUnit{Name: r.ReadS()}
	case CMSG_AREATRIGGER:
		return &AreaTrigger{TriggerID: r.ReadD()}
	case CMSG_SWAP_INV_ITEM:
		return &SwapInvItem{DestSlot: r.ReadC(), SrcSlot: r.ReadC()}
	case CMSG_SET_SELECTION:
		return &SetSelection{Target: r.ReadQ()}
	case CMSG_ATTACKSWING:
		return &AttackSwing{GUID: r.ReadQ()}
	case CMSG_ATTACKSTOP:
		return &AttackStop{}
	case CMSG_QUERY_TIME:
		return &QueryTime{}
	case CMSG_PING:
		return &Ping{Sequence: r.ReadD(), Latency: r.ReadD()}
	default:
		return &Unhandled{Op: op, Data: body}
	}
}
