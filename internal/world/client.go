package world

import (
	"github.com/frostmere/server/internal/net"
	"github.com/frostmere/server/internal/proto"
)

// Status is a client's place in the session lifecycle.
type Status int

const (
	// StatusCharacterScreen covers everything between world auth and
	// CMSG_PLAYER_LOGIN: enumerating, creating, and deleting characters.
	StatusCharacterScreen Status = iota
	// StatusWaitingToLogIn means a login request was accepted but the tick's
	// promotion stage has not run yet. The requested guid is in PendingLogin.
	StatusWaitingToLogIn
	// StatusInWorld means the client controls a live character.
	StatusInWorld
)

// Client is one connected player as the tick loop sees it. All fields are
// owned by the tick goroutine; the session handles the socket side.
type Client struct {
	Sess   *net.Session
	Status Status

	// Char is the live character record, nil at the character screen.
	Char *Character

	// PendingLogin is the character guid requested by CMSG_PLAYER_LOGIN,
	// consumed by the promotion stage.
	PendingLogin uint64

	// LogoutPending defers the actual logout to the end of the tick, after
	// every other message this tick has been handled.
	LogoutPending bool

	// AttackTimer counts down to the next auto-attack swing.
	AttackTimer int64 // milliseconds

	// SpeedCounter sequences force-speed-change messages so the client acks
	// the right one.
	SpeedCounter uint32

	timeSyncCounter uint32
}

// Send buffers a message on the client's session.
func (c *Client) Send(msg proto.ServerMessage) {
	c.Sess.Send(msg)
}

// InWorld reports whether the client controls a live character.
func (c *Client) InWorld() bool {
	return c.Status == StatusInWorld && c.Char != nil
}

// Account returns the authenticated account name.
func (c *Client) Account() string {
	return c.Sess.Account
}

// NextTimeSync returns the next time-sync counter value.
func (c *Client) NextTimeSync() uint32 {
	v := c.timeSyncCounter
	c.timeSyncCounter++
	return v
}

// NextSpeedCounter returns the next speed-change counter value.
func (c *Client) NextSpeedCounter() uint32 {
	c.SpeedCounter++
	return c.SpeedCounter
}
