package world

import (
	"encoding/binary"
	stdnet "net"
	"testing"
	"time"

	"github.com/frostmere/server/internal/config"
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/net"
	"github.com/frostmere/server/internal/proto"
	"go.uber.org/zap"
)

// fakeStore is an in-test CharacterStore recording writes.
type fakeStore struct {
	next     uint64
	chars    map[uint64]*Character
	replaced []uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{chars: map[uint64]*Character{}}
}

func (s *fakeStore) NewGUID() uint64 { s.next++; return s.next }

func (s *fakeStore) Get(guid uint64) (*Character, bool) {
	c, ok := s.chars[guid]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

func (s *fakeStore) Replace(c *Character) {
	s.chars[c.GUID] = c.Clone()
	s.replaced = append(s.replaced, c.GUID)
}

func (s *fakeStore) Create(c *Character) error {
	s.chars[c.GUID] = c.Clone()
	return nil
}

func (s *fakeStore) Delete(guid uint64) { delete(s.chars, guid) }

func (s *fakeStore) ListForAccount(account string) []*Character { return nil }

func (s *fakeStore) FindByName(name string) (*Character, bool) { return nil, false }

// recordingDispatcher flags logins like the real dispatcher and counts what
// each stage saw. Promotion itself only happens in CompleteLogin.
type recordingDispatcher struct {
	charScreen []proto.ClientMessage
	inWorld    []proto.ClientMessage
	chars      map[uint64]*Character
}

func (d *recordingDispatcher) HandleCharacterScreen(w *World, c *Client, msg proto.ClientMessage) {
	d.charScreen = append(d.charScreen, msg)
	if m, ok := msg.(*proto.PlayerLogin); ok {
		c.PendingLogin = m.GUID
		c.Status = StatusWaitingToLogIn
	}
}

func (d *recordingDispatcher) HandleWorld(w *World, c *Client, msg proto.ClientMessage) {
	d.inWorld = append(d.inWorld, msg)
}

func (d *recordingDispatcher) CompleteLogin(w *World, c *Client) {
	char, ok := d.chars[c.PendingLogin]
	c.PendingLogin = 0
	if !ok {
		c.Sess.Close()
		return
	}
	c.Char = char
	c.Status = StatusInWorld
}

func testSession(t *testing.T) *net.Session {
	t.Helper()
	server, client := stdnet.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	return net.NewSession(server, 1, 32, 256, time.Second, zap.NewNop())
}

func testWorld(t *testing.T, joins <-chan *net.Session) (*World, *fakeStore, *recordingDispatcher) {
	t.Helper()
	store := newFakeStore()
	disp := &recordingDispatcher{
		chars: map[uint64]*Character{
			100: {GUID: 100, Name: "Tester", Map: 0, Health: 100, MaxHealth: 100},
		},
	}
	w := New(config.Defaults(), zap.NewNop(), store, &data.Tables{}, joins)
	w.SetDispatcher(disp)
	return w, store, disp
}

// enterWorld runs one session through the login flow: queue the login,
// drain the character screen, promote.
func enterWorld(t *testing.T, w *World, sess *net.Session, guid uint64) {
	t.Helper()
	sess.InQueue <- &proto.PlayerLogin{GUID: guid}
	w.DispatchCharacterScreen()
	w.PromotePending()
}

// frameOpcodes drains a session's out queue after a flush and returns the
// server opcodes in order.
func frameOpcodes(sess *net.Session) []proto.ServerOpcode {
	var ops []proto.ServerOpcode
	for {
		select {
		case frame := <-sess.OutQueue:
			ops = append(ops, proto.ServerOpcode(binary.LittleEndian.Uint16(frame[2:4])))
		default:
			return ops
		}
	}
}

func TestPromotionSameTick(t *testing.T) {
	joins := make(chan *net.Session, 1)
	w, _, disp := testWorld(t, joins)

	sess := testSession(t)
	joins <- sess
	w.AdoptJoins()

	// Queue a char-screen message, the login, and an in-world message.
	sess.InQueue <- &proto.CharEnum{}
	sess.InQueue <- &proto.PlayerLogin{GUID: 100}
	sess.InQueue <- &proto.QueryTime{}

	w.DispatchCharacterScreen()
	if len(disp.charScreen) != 2 {
		t.Fatalf("character screen saw %d messages, want 2", len(disp.charScreen))
	}
	if len(disp.inWorld) != 0 {
		t.Fatal("in-world stage ran before its phase")
	}

	// The dispatcher only flags the client; promotion is the tick's job.
	c := w.clients[0]
	if c.Status != StatusWaitingToLogIn || c.PendingLogin != 100 {
		t.Fatalf("after drain: status=%v pending=%d, want waiting with guid 100",
			c.Status, c.PendingLogin)
	}
	w.PromotePending()
	if !c.InWorld() {
		t.Fatal("client not promoted by the promotion stage")
	}

	// The same tick's world stage picks up the remaining message.
	w.DispatchWorld(100 * time.Millisecond)
	if len(disp.inWorld) != 1 {
		t.Fatalf("in-world stage saw %d messages, want 1", len(disp.inWorld))
	}
	if _, ok := disp.inWorld[0].(*proto.QueryTime); !ok {
		t.Errorf("in-world message = %T, want *QueryTime", disp.inWorld[0])
	}
}

func TestProcessLogouts(t *testing.T) {
	joins := make(chan *net.Session, 1)
	w, store, _ := testWorld(t, joins)

	sess := testSession(t)
	joins <- sess
	w.AdoptJoins()
	enterWorld(t, w, sess, 100)

	c := w.clients[0]
	if !c.InWorld() {
		t.Fatal("client not promoted")
	}
	c.LogoutPending = true

	w.ProcessLogouts()
	if c.Status != StatusCharacterScreen || c.Char != nil {
		t.Error("client not returned to the character screen")
	}
	if len(store.replaced) != 1 || store.replaced[0] != 100 {
		t.Errorf("replaced = %v, want the logged-out character", store.replaced)
	}

	w.FlushOutput()
	ops := frameOpcodes(sess)
	if len(ops) != 1 || ops[0] != proto.SMSG_LOGOUT_COMPLETE {
		t.Errorf("sent %v, want only SMSG_LOGOUT_COMPLETE", ops)
	}
}

func TestPruneSavesCharacter(t *testing.T) {
	joins := make(chan *net.Session, 1)
	w, store, _ := testWorld(t, joins)

	sess := testSession(t)
	joins <- sess
	w.AdoptJoins()
	enterWorld(t, w, sess, 100)

	sess.Close()
	w.Prune()
	if len(w.clients) != 0 {
		t.Fatalf("clients = %d, want 0", len(w.clients))
	}
	if len(store.replaced) != 1 || store.replaced[0] != 100 {
		t.Errorf("replaced = %v, want the dropped character saved", store.replaced)
	}
}

func TestCombatSwingTiming(t *testing.T) {
	joins := make(chan *net.Session, 1)
	w, _, _ := testWorld(t, joins)
	w.creatures = append(w.creatures, &Creature{
		GUID:      creatureGUIDHigh | 1,
		Entry:     69,
		Name:      "Timber Wolf",
		Health:    attackDamage * 2,
		MaxHealth: attackDamage * 2,
		Map:       0,
	})

	sess := testSession(t)
	joins <- sess
	w.AdoptJoins()
	enterWorld(t, w, sess, 100)

	c := w.clients[0]
	c.Char.Target = creatureGUIDHigh | 1
	c.Char.Attacking = true
	c.AttackTimer = 0

	// First update: timer at zero, in range, swing lands.
	w.DispatchWorld(100 * time.Millisecond)
	cr := w.CreatureByGUID(creatureGUIDHigh | 1)
	if cr.Health != attackDamage {
		t.Fatalf("health = %d, want %d after first swing", cr.Health, attackDamage)
	}

	// Next update only 100ms later: cooldown not elapsed, no swing.
	w.DispatchWorld(100 * time.Millisecond)
	if cr.Health != attackDamage {
		t.Fatalf("health = %d, swing landed during cooldown", cr.Health)
	}

	// Advance past the interval: killing blow, auto-attack stops.
	w.DispatchWorld(attackIntervalMs * time.Millisecond)
	if cr.Health != 0 {
		t.Fatalf("health = %d, want 0", cr.Health)
	}
	if c.Char.Attacking {
		t.Error("still attacking a dead target")
	}
}

func TestCombatAgainstPlayer(t *testing.T) {
	joins := make(chan *net.Session, 2)
	w, _, disp := testWorld(t, joins)
	disp.chars[200] = &Character{
		GUID: 200, Name: "Defender", Map: 0, Health: 5000, MaxHealth: 5000,
	}

	attacker := testSession(t)
	defender := testSession(t)
	joins <- attacker
	joins <- defender
	w.AdoptJoins()
	attacker.InQueue <- &proto.PlayerLogin{GUID: 100}
	defender.InQueue <- &proto.PlayerLogin{GUID: 200}
	w.DispatchCharacterScreen()
	w.PromotePending()

	a := w.clients[0]
	a.Char.Target = 200
	a.Char.Attacking = true
	a.AttackTimer = 0

	// Damage resolves against the other player on the tick update, same as
	// against creatures.
	w.DispatchWorld(100 * time.Millisecond)
	d := w.ClientByCharGUID(200)
	if d.Char.Health != 5000-attackDamage {
		t.Fatalf("defender health = %d, want %d", d.Char.Health, 5000-attackDamage)
	}
	if !a.Char.Attacking {
		t.Error("attacker stopped after a swing on a living player")
	}

	// Finishing blow clears the attack.
	d.Char.Health = attackDamage
	w.DispatchWorld(attackIntervalMs * time.Millisecond)
	if d.Char.Health != 0 {
		t.Fatalf("defender health = %d, want 0", d.Char.Health)
	}
	if a.Char.Attacking {
		t.Error("still attacking a dead player")
	}
}

func TestCombatOutOfRangeHoldsSwing(t *testing.T) {
	joins := make(chan *net.Session, 1)
	w, _, _ := testWorld(t, joins)
	w.creatures = append(w.creatures, &Creature{
		GUID:   creatureGUIDHigh | 1,
		Health: 5000,
		Map:    0,
		Info:   proto.MovementInfo{Position: proto.Vector3{X: 100}},
	})

	sess := testSession(t)
	joins <- sess
	w.AdoptJoins()
	enterWorld(t, w, sess, 100)

	c := w.clients[0]
	c.Char.Target = creatureGUIDHigh | 1
	c.Char.Attacking = true
	c.AttackTimer = 0

	w.DispatchWorld(100 * time.Millisecond)
	cr := w.CreatureByGUID(creatureGUIDHigh | 1)
	if cr.Health != 5000 {
		t.Fatalf("out-of-range swing landed, health = %d", cr.Health)
	}
	if c.AttackTimer != 0 {
		t.Errorf("AttackTimer = %d, want swing held at 0", c.AttackTimer)
	}
}

func TestBroadcastRange(t *testing.T) {
	joins := make(chan *net.Session, 5)
	w, _, _ := testWorld(t, joins)

	speaker := testSession(t)
	near := testSession(t)
	boundary := testSession(t)
	far := testSession(t)
	otherMap := testSession(t)
	for _, s := range []*net.Session{speaker, near, boundary, far, otherMap} {
		joins <- s
	}
	w.AdoptJoins()

	chars := []*Character{
		{GUID: 1, Name: "Speaker", Map: 0},
		{GUID: 2, Name: "Near", Map: 0, Info: proto.MovementInfo{Position: proto.Vector3{X: 10}}},
		{GUID: 3, Name: "Boundary", Map: 0, Info: proto.MovementInfo{Position: proto.Vector3{X: 25}}},
		{GUID: 4, Name: "Far", Map: 0, Info: proto.MovementInfo{Position: proto.Vector3{X: 200}}},
		{GUID: 5, Name: "Elsewhere", Map: 1},
	}
	for i, c := range w.clients {
		c.Status = StatusInWorld
		c.Char = chars[i]
	}

	msg := &proto.ChatMessage{ChatType: byte(proto.ChatTypeSay), Sender: 1, Message: "hi"}
	w.BroadcastRange(chars[0], 25.0, true, msg)
	w.FlushOutput()

	if ops := frameOpcodes(speaker); len(ops) != 1 {
		t.Errorf("speaker got %d frames, want 1 (includeSelf)", len(ops))
	}
	if ops := frameOpcodes(near); len(ops) != 1 {
		t.Errorf("near got %d frames, want 1", len(ops))
	}
	// Delivery is strictly-less-than: exactly at the threshold misses.
	if ops := frameOpcodes(boundary); len(ops) != 0 {
		t.Errorf("boundary got %d frames, want 0 at exact range", len(ops))
	}
	if ops := frameOpcodes(far); len(ops) != 0 {
		t.Errorf("far got %d frames, want 0", len(ops))
	}
	// Another map never hears it, whatever the coordinates say.
	if ops := frameOpcodes(otherMap); len(ops) != 0 {
		t.Errorf("other map got %d frames, want 0", len(ops))
	}
}
