package proto

import "fmt"

// ClientOpcode identifies a client→server message. Client frames carry the
// opcode as a little-endian uint32 after the size field.
type ClientOpcode uint32

// ServerOpcode identifies a server→client message. Server frames carry the
// opcode as a little-endian uint16 after the size field.
type ServerOpcode uint16

// Client opcodes (1.12 protocol numbering).
const (
	CMSG_WORLD_TELEPORT      ClientOpcode = 0x008
	CMSG_TELEPORT_TO_UNIT    ClientOpcode = 0x009
	CMSG_CHAR_CREATE         ClientOpcode = 0x036
	CMSG_CHAR_ENUM           ClientOpcode = 0x037
	CMSG_CHAR_DELETE         ClientOpcode = 0x038
	CMSG_PLAYER_LOGIN        ClientOpcode = 0x03D
	CMSG_LOGOUT_REQUEST      ClientOpcode = 0x04B
	CMSG_NAME_QUERY          ClientOpcode = 0x050
	CMSG_ITEM_QUERY_SINGLE   ClientOpcode = 0x056
	CMSG_CREATURE_QUERY      ClientOpcode = 0x060
	CMSG_MESSAGECHAT         ClientOpcode = 0x095
	MSG_MOVE_START_FORWARD   ClientOpcode = 0x0B5
	MSG_MOVE_START_BACKWARD  ClientOpcode = 0x0B6
	MSG_MOVE_STOP            ClientOpcode = 0x0B7
	MSG_MOVE_START_STRAFE_L  ClientOpcode = 0x0B8
	MSG_MOVE_START_STRAFE_R  ClientOpcode = 0x0B9
	MSG_MOVE_STOP_STRAFE     ClientOpcode = 0x0BA
	MSG_MOVE_JUMP            ClientOpcode = 0x0BB
	MSG_MOVE_START_TURN_L    ClientOpcode = 0x0BC
	MSG_MOVE_START_TURN_R    ClientOpcode = 0x0BD
	MSG_MOVE_STOP_TURN       ClientOpcode = 0x0BE
	MSG_MOVE_START_PITCH_UP  ClientOpcode = 0x0BF
	MSG_MOVE_START_PITCH_DN  ClientOpcode = 0x0C0
	MSG_MOVE_STOP_PITCH      ClientOpcode = 0x0C1
	MSG_MOVE_SET_RUN_MODE    ClientOpcode = 0x0C2
	MSG_MOVE_SET_WALK_MODE   ClientOpcode = 0x0C3
	MSG_MOVE_FALL_LAND       ClientOpcode = 0x0C9
	MSG_MOVE_START_SWIM      ClientOpcode = 0x0CA
	MSG_MOVE_STOP_SWIM       ClientOpcode = 0x0CB
	MSG_MOVE_SET_FACING      ClientOpcode = 0x0DA
	MSG_MOVE_SET_PITCH       ClientOpcode = 0x0DB
	MSG_MOVE_WORLDPORT_ACK   ClientOpcode = 0x0DC
	CMSG_MOVE_FALL_RESET     ClientOpcode = 0x2CA
	CMSG_AREATRIGGER         ClientOpcode = 0x0B4
	CMSG_SWAP_INV_ITEM       ClientOpcode = 0x10D
	CMSG_SET_SELECTION       ClientOpcode = 0x13D
	CMSG_ATTACKSWING         ClientOpcode = 0x141
	CMSG_ATTACKSTOP          ClientOpcode = 0x142
	CMSG_QUERY_TIME          ClientOpcode = 0x1CE
	CMSG_PING                ClientOpcode = 0x1DC
	CMSG_AUTH_SESSION        ClientOpcode = 0x1ED
	CMSG_UPDATE_ACCOUNT_DATA ClientOpcode = 0x20B
)

// Server opcodes.
const (
	SMSG_CHAR_CREATE            ServerOpcode = 0x03A
	SMSG_CHAR_ENUM              ServerOpcode = 0x03B
	SMSG_CHAR_DELETE            ServerOpcode = 0x03C
	SMSG_NEW_WORLD              ServerOpcode = 0x03E
	SMSG_TRANSFER_PENDING       ServerOpcode = 0x03F
	SMSG_LOGIN_SETTIMESPEED     ServerOpcode = 0x042
	SMSG_LOGOUT_RESPONSE        ServerOpcode = 0x04C
	SMSG_LOGOUT_COMPLETE        ServerOpcode = 0x04D
	SMSG_NAME_QUERY_RESPONSE    ServerOpcode = 0x051
	SMSG_ITEM_QUERY_RESPONSE    ServerOpcode = 0x058
	SMSG_CREATURE_QUERY_RESP    ServerOpcode = 0x061
	SMSG_MESSAGECHAT            ServerOpcode = 0x096
	SMSG_UPDATE_OBJECT          ServerOpcode = 0x0A9
	SMSG_DESTROY_OBJECT         ServerOpcode = 0x0AA
	MSG_MOVE_TELEPORT_ACK       ServerOpcode = 0x0C7
	SMSG_MONSTER_MOVE           ServerOpcode = 0x0DD
	SMSG_FORCE_RUN_SPEED_CHANGE ServerOpcode = 0x0E2
	SMSG_TUTORIAL_FLAGS         ServerOpcode = 0x0FD
	SMSG_INITIAL_SPELLS         ServerOpcode = 0x12A
	SMSG_ATTACKSTART            ServerOpcode = 0x143
	SMSG_ATTACKSTOP             ServerOpcode = 0x144
	SMSG_ATTACKERSTATEUPDATE    ServerOpcode = 0x14A
	SMSG_ITEM_PUSH_RESULT       ServerOpcode = 0x166
	SMSG_QUERY_TIME_RESPONSE    ServerOpcode = 0x1CF
	SMSG_PONG                   ServerOpcode = 0x1DD
	SMSG_AUTH_CHALLENGE         ServerOpcode = 0x1EC
	SMSG_AUTH_RESPONSE          ServerOpcode = 0x1EE
	SMSG_ACCOUNT_DATA_TIMES     ServerOpcode = 0x209
	SMSG_LOGIN_VERIFY_WORLD     ServerOpcode = 0x236
	SMSG_SPLINE_SET_RUN_SPEED   ServerOpcode = 0x2FE
	SMSG_TIME_SYNC_REQ          ServerOpcode = 0x390
)

func (op ClientOpcode) String() string {
	if name, ok := clientOpcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("CMSG(0x%03X)", uint32(op))
}

var clientOpcodeNames = map[ClientOpcode]string{
	CMSG_WORLD_TELEPORT:      "CMSG_WORLD_TELEPORT",
	CMSG_TELEPORT_TO_UNIT:    "CMSG_TELEPORT_TO_UNIT",
	CMSG_CHAR_CREATE:         "CMSG_CHAR_CREATE",
	CMSG_CHAR_ENUM:           "CMSG_CHAR_ENUM",
	CMSG_CHAR_DELETE:         "CMSG_CHAR_DELETE",
	CMSG_PLAYER_LOGIN:        "CMSG_PLAYER_LOGIN",
	CMSG_LOGOUT_REQUEST:      "CMSG_LOGOUT_REQUEST",
	CMSG_NAME_QUERY:          "CMSG_NAME_QUERY",
	CMSG_ITEM_QUERY_SINGLE:   "CMSG_ITEM_QUERY_SINGLE",
	CMSG_CREATURE_QUERY:      "CMSG_CREATURE_QUERY",
	CMSG_MESSAGECHAT:         "CMSG_MESSAGECHAT",
	MSG_MOVE_START_FORWARD:   "MSG_MOVE_START_FORWARD",
	MSG_MOVE_START_BACKWARD:  "MSG_MOVE_START_BACKWARD",
	MSG_MOVE_STOP:            "MSG_MOVE_STOP",
	MSG_MOVE_START_STRAFE_L:  "MSG_MOVE_START_STRAFE_LEFT",
	MSG_MOVE_START_STRAFE_R:  "MSG_MOVE_START_STRAFE_RIGHT",
	MSG_MOVE_STOP_STRAFE:     "MSG_MOVE_STOP_STRAFE",
	MSG_MOVE_JUMP:            "MSG_MOVE_JUMP",
	MSG_MOVE_START_TURN_L:    "MSG_MOVE_START_TURN_LEFT",
	MSG_MOVE_START_TURN_R:    "MSG_MOVE_START_TURN_RIGHT",
	MSG_MOVE_STOP_TURN:       "MSG_MOVE_STOP_TURN",
	MSG_MOVE_START_PITCH_UP:  "MSG_MOVE_START_PITCH_UP",
	MSG_MOVE_START_PITCH_DN:  "MSG_MOVE_START_PITCH_DOWN",
	MSG_MOVE_STOP_PITCH:      "MSG_MOVE_STOP_PITCH",
	MSG_MOVE_SET_RUN_MODE:    "MSG_MOVE_SET_RUN_MODE",
	MSG_MOVE_SET_WALK_MODE:   "MSG_MOVE_SET_WALK_MODE",
	MSG_MOVE_FALL_LAND:       "MSG_MOVE_FALL_LAND",
	MSG_MOVE_START_SWIM:      "MSG_MOVE_START_SWIM",
	MSG_MOVE_STOP_SWIM:       "MSG_MOVE_STOP_SWIM",
	MSG_MOVE_SET_FACING:      "MSG_MOVE_SET_FACING",
	MSG_MOVE_SET_PITCH:       "MSG_MOVE_SET_PITCH",
	MSG_MOVE_WORLDPORT_ACK:   "MSG_MOVE_WORLDPORT_ACK",
	CMSG_MOVE_FALL_RESET:     "CMSG_MOVE_FALL_RESET",
	CMSG_AREATRIGGER:         "CMSG_AREATRIGGER",
	CMSG_SWAP_INV_ITEM:       "CMSG_SWAP_INV_ITEM",
	CMSG_SET_SELECTION:       "CMSG_SET_SELECTION",
	CMSG_ATTACKSWING:         "CMSG_ATTACKSWING",
	CMSG_ATTACKSTOP:          "CMSG_ATTACKSTOP",
	CMSG_QUERY_TIME:          "CMSG_QUERY_TIME",
	CMSG_PING:                "CMSG_PING",
	CMSG_AUTH_SESSION:        "CMSG_AUTH_SESSION",
	CMSG_UPDATE_ACCOUNT_DATA: "CMSG_UPDATE_ACCOUNT_DATA",
}
