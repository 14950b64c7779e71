package net

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frostmere/server/internal/proto"
	"github.com/frostmere/server/internal/srp"
	"go.uber.org/zap"
)

// KeyLookup resolves the session key an account proved during realm logon.
type KeyLookup func(account string) (key [srp.KeySize]byte, ok bool)

// Session represents a single world connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the tick loop.
type Session struct {
	ID   uint64
	conn net.Conn

	encrypter *srp.Encrypter
	decrypter *srp.Decrypter

	InQueue  chan proto.ClientMessage // tick loop reads messages from here
	OutQueue chan []byte              // writer goroutine reads from here

	IP         string
	Account    string
	serverSeed uint32

	outBuf [][]byte // buffered frames, flushed once per tick (tick loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	writeTimeout time.Duration

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, writeTimeout time.Duration, log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan proto.ClientMessage, inSize),
		OutQueue:     make(chan []byte, outSize),
		IP:           conn.RemoteAddr().String(),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Handshake runs the world auth exchange: challenge out, CMSG_AUTH_SESSION
// in, proof check against the realm session key, response out. The header
// cipher is installed before the response, which is the first ciphered
// frame the client expects.
func (s *Session) Handshake(keys KeyLookup) error {
	seed, err := srp.NewProofSeed()
	if err != nil {
		return err
	}
	s.serverSeed = seed

	if err := s.writeFrame(proto.EncodeServer(&proto.AuthChallenge{ServerSeed: seed})); err != nil {
		return fmt.Errorf("send auth challenge: %w", err)
	}

	s.conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	op, body, err := proto.ReadClientFrame(s.conn, nil)
	if err != nil {
		return fmt.Errorf("read auth session: %w", err)
	}
	if op != proto.CMSG_AUTH_SESSION {
		return fmt.Errorf("expected CMSG_AUTH_SESSION, got %s", op)
	}
	auth, ok := proto.DecodeClient(op, body).(*proto.AuthSession)
	if !ok {
		return fmt.Errorf("malformed CMSG_AUTH_SESSION")
	}

	key, ok := keys(auth.Account)
	if !ok {
		s.writeFrame(proto.EncodeServer(&proto.AuthResponse{Result: proto.AuthUnknownAccount}))
		return fmt.Errorf("no session key for account %s", auth.Account)
	}

	// The client derives the same cipher whether or not its proof was right,
	// so the result goes out ciphered either way.
	s.encrypter, s.decrypter = srp.NewHeaderCipher(key).Split()

	if !srp.VerifyWorldProof(auth.Account, auth.ClientProof, auth.ClientSeed, seed, key) {
		s.writeFrame(s.cipherHeader(proto.EncodeServer(&proto.AuthResponse{Result: proto.AuthFailed})))
		return fmt.Errorf("world proof mismatch for account %s", auth.Account)
	}

	s.Account = auth.Account
	if err := s.writeFrame(s.cipherHeader(proto.EncodeServer(&proto.AuthResponse{Result: proto.AuthOK}))); err != nil {
		return fmt.Errorf("send auth response: %w", err)
	}

	s.conn.SetReadDeadline(time.Time{})
	return nil
}

// Start launches the reader and writer goroutines. Call after a successful
// Handshake.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a message for sending. Frames are not handed to the writer
// until FlushOutput runs at the end of the tick.
// Called only from the tick loop goroutine, so outBuf needs no lock.
func (s *Session) Send(msg proto.ServerMessage) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, proto.EncodeServer(msg))
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop.
// Non-blocking: a full OutQueue means the client cannot keep up, and the
// session is disconnected rather than stalling the tick.
func (s *Session) FlushOutput() {
	for _, frame := range s.outBuf {
		select {
		case s.OutQueue <- frame:
		default:
			s.log.Warn("out queue full, dropping slow client",
				zap.String("account", s.Account))
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Poll returns the next decoded client message without blocking.
func (s *Session) Poll() (proto.ClientMessage, bool) {
	select {
	case msg := <-s.InQueue:
		return msg, true
	default:
		return nil, false
	}
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads frames, decodes them, and pushes them onto InQueue for the
// tick loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		op, body, err := proto.ReadClientFrame(s.conn, s.decrypter.Decrypt)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		msg := proto.DecodeClient(op, body)

		// Block until InQueue has space or the session closes. Dropping
		// movement messages desyncs the authoritative position, so the queue
		// applies backpressure to this client instead. The goroutine is
		// per-session; blocking here stalls only this client.
		select {
		case s.InQueue <- msg:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop reads frames from OutQueue, ciphers their headers, and writes
// them to the TCP connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case frame := <-s.OutQueue:
			if err := s.writeFrame(s.cipherHeader(frame)); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// cipherHeader encrypts the 4 header bytes in place and returns the frame.
func (s *Session) cipherHeader(frame []byte) []byte {
	s.encrypter.Encrypt(frame[:4])
	return frame
}

func (s *Session) writeFrame(frame []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	_, err := s.conn.Write(frame)
	return err
}
