package net

import (
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Server accepts world connections, runs the auth handshake on each, and
// hands authenticated sessions to the tick loop via a channel.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Session
	keys     KeyLookup

	inSize       int
	outSize      int
	writeTimeout time.Duration

	log     *zap.Logger
	closeCh chan struct{}
}

func NewServer(bindAddr string, keys KeyLookup, inSize, outSize int, writeTimeout time.Duration, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:     ln,
		newConns:     make(chan *Session, 64),
		keys:         keys,
		inSize:       inSize,
		outSize:      outSize,
		writeTimeout: writeTimeout,
		log:          log,
		closeCh:      make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine. Each connection gets its own
// handshake goroutine so one slow client cannot stall the accept loop.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.inSize, s.outSize, s.writeTimeout, s.log)
		go s.handshake(sess)
	}
}

func (s *Server) handshake(sess *Session) {
	if err := sess.Handshake(s.keys); err != nil {
		s.log.Warn("world handshake failed",
			zap.String("ip", sess.IP),
			zap.Error(err))
		sess.Close()
		return
	}

	sess.Start()
	s.log.Info("world session authenticated",
		zap.Uint64("session", sess.ID),
		zap.String("account", sess.Account),
		zap.String("ip", sess.IP))

	select {
	case s.newConns <- sess:
	default:
		s.log.Warn("join queue full, rejecting connection",
			zap.String("account", sess.Account))
		sess.Close()
	}
}

// NewSessions returns the channel of authenticated sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
