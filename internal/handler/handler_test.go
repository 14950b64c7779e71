package handler

import (
	"encoding/binary"
	stdnet "net"
	"testing"
	"time"

	"github.com/frostmere/server/internal/config"
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/net"
	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/store"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
)

// fixture holds a world wired to the real dispatcher, with sessions that
// never touch a socket.
type fixture struct {
	w     *world.World
	d     *Dispatcher
	db    *store.CharacterDB
	joins chan *net.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Defaults()
	db := store.NewCharacterDB()
	joins := make(chan *net.Session, 4)
	w := world.New(cfg, zap.NewNop(), db, &data.Tables{}, joins)
	d := New(&Deps{Config: cfg, Log: zap.NewNop(), Tables: &data.Tables{}})
	w.SetDispatcher(d)
	return &fixture{w: w, d: d, db: db, joins: joins}
}

// enter creates a character, logs its session in through the real promotion
// flow, and returns the in-world client.
func (f *fixture) enter(t *testing.T, name, account string) *world.Client {
	t.Helper()
	char := &world.Character{
		GUID:      f.db.NewGUID(),
		Name:      name,
		Account:   account,
		Map:       0,
		Health:    100,
		MaxHealth: 100,
	}
	if err := f.db.Create(char); err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}

	server, client := stdnet.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	sess := net.NewSession(server, char.GUID, 32, 256, time.Second, zap.NewNop())
	sess.Account = account

	f.joins <- sess
	f.w.AdoptJoins()
	sess.InQueue <- &proto.PlayerLogin{GUID: char.GUID}
	f.w.DispatchCharacterScreen()
	f.w.PromotePending()

	c := f.w.ClientByCharGUID(char.GUID)
	if c == nil {
		t.Fatalf("client %s not promoted", name)
	}
	return c
}

// drain flushes and empties a session's out queue, returning the frames.
func drain(f *fixture, sess *net.Session) [][]byte {
	f.w.FlushOutput()
	var frames [][]byte
	for {
		select {
		case frame := <-sess.OutQueue:
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func opcodeOf(frame []byte) proto.ServerOpcode {
	return proto.ServerOpcode(binary.LittleEndian.Uint16(frame[2:4]))
}

// chatTypeOf pulls the chat type byte out of an SMSG_MESSAGECHAT frame.
func chatTypeOf(frame []byte) byte {
	return frame[4]
}

func TestWhisperFraming(t *testing.T) {
	f := newFixture(t)
	alice := f.enter(t, "Alice", "ONE")
	bob := f.enter(t, "Bob", "TWO")
	drain(f, alice.Sess)
	drain(f, bob.Sess)

	f.d.HandleWorld(f.w, alice, &proto.MessageChat{
		ChatType: proto.ChatTypeWhisper,
		Target:   "bob", // name matching ignores case
		Message:  "psst",
	})

	bobFrames := drain(f, bob.Sess)
	if len(bobFrames) != 1 || opcodeOf(bobFrames[0]) != proto.SMSG_MESSAGECHAT {
		t.Fatalf("recipient frames = %d, want one chat message", len(bobFrames))
	}
	if got := chatTypeOf(bobFrames[0]); got != byte(proto.ChatTypeWhisper) {
		t.Errorf("recipient chat type = 0x%02X, want whisper", got)
	}

	aliceFrames := drain(f, alice.Sess)
	if len(aliceFrames) != 1 || opcodeOf(aliceFrames[0]) != proto.SMSG_MESSAGECHAT {
		t.Fatalf("sender frames = %d, want one whisper-inform echo", len(aliceFrames))
	}
	if got := chatTypeOf(aliceFrames[0]); got != byte(proto.ChatTypeWhisperInform) {
		t.Errorf("sender chat type = 0x%02X, want whisper-inform", got)
	}
}

func TestWhisperToSelfRejected(t *testing.T) {
	f := newFixture(t)
	alice := f.enter(t, "Alice", "ONE")
	drain(f, alice.Sess)

	f.d.HandleWorld(f.w, alice, &proto.MessageChat{
		ChatType: proto.ChatTypeWhisper,
		Target:   "ALICE",
		Message:  "echo?",
	})

	frames := drain(f, alice.Sess)
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want one system message", len(frames))
	}
	if got := chatTypeOf(frames[0]); got != byte(proto.ChatTypeSystem) {
		t.Errorf("chat type = 0x%02X, want system", got)
	}
}

func TestAttackSwingTargetsPlayer(t *testing.T) {
	f := newFixture(t)
	alice := f.enter(t, "Alice", "ONE")
	bob := f.enter(t, "Bob", "TWO")

	f.d.HandleWorld(f.w, alice, &proto.AttackSwing{GUID: bob.Char.GUID})

	// The swing stores the identifier verbatim, whoever owns it; the tick's
	// combat update decides whether it can be hit.
	if !alice.Char.Attacking || alice.Char.Target != bob.Char.GUID {
		t.Fatalf("attacking=%v target=%d, want attacking=true target=%d",
			alice.Char.Attacking, alice.Char.Target, bob.Char.GUID)
	}
}

func TestWorldportAckReplaysLoginStream(t *testing.T) {
	f := newFixture(t)
	alice := f.enter(t, "Alice", "ONE")
	drain(f, alice.Sess)

	alice.Char.Teleporting = true
	f.d.HandleWorld(f.w, alice, &proto.WorldportAck{})

	want := []proto.ServerOpcode{
		proto.SMSG_LOGIN_VERIFY_WORLD,
		proto.SMSG_ACCOUNT_DATA_TIMES,
		proto.SMSG_LOGIN_SETTIMESPEED,
		proto.SMSG_TUTORIAL_FLAGS,
		proto.SMSG_INITIAL_SPELLS,
		proto.SMSG_UPDATE_OBJECT,
		proto.SMSG_TIME_SYNC_REQ,
	}
	frames := drain(f, alice.Sess)
	if len(frames) != len(want) {
		t.Fatalf("frames = %d, want %d", len(frames), len(want))
	}
	for i, frame := range frames {
		if opcodeOf(frame) != want[i] {
			t.Errorf("frame %d = 0x%03X, want 0x%03X", i, uint16(opcodeOf(frame)), uint16(want[i]))
		}
	}
	if alice.Char.Teleporting {
		t.Error("teleport flag not cleared")
	}
}

func TestSameMapTeleportAckOnlyTraveler(t *testing.T) {
	f := newFixture(t)
	alice := f.enter(t, "Alice", "ONE")
	bob := f.enter(t, "Bob", "TWO")
	drain(f, alice.Sess)
	drain(f, bob.Sess)

	f.d.teleportTo(f.w, alice, 0, proto.Vector3{X: 50, Y: 50, Z: 10}, 0)

	aliceFrames := drain(f, alice.Sess)
	if len(aliceFrames) != 1 || opcodeOf(aliceFrames[0]) != proto.MSG_MOVE_TELEPORT_ACK {
		t.Fatalf("traveler frames = %d, want one teleport ack", len(aliceFrames))
	}
	if frames := drain(f, bob.Sess); len(frames) != 0 {
		t.Errorf("observer got %d frames, want 0", len(frames))
	}
}
