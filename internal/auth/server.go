// Package auth runs the realm logon server: the SRP6 exchange a client
// completes before it ever touches the world port, plus the realm list.
package auth

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/frostmere/server/internal/config"
	"github.com/frostmere/server/internal/srp"
	"github.com/frostmere/server/internal/store"
	"go.uber.org/zap"
)

// Logon commands.
const (
	cmdLogonChallenge byte = 0x00
	cmdLogonProof     byte = 0x01
	cmdRealmList      byte = 0x10
)

// Logon results.
const (
	resultSuccess           byte = 0x00
	resultUnknownAccount    byte = 0x04
	resultIncorrectPassword byte = 0x05
)

const connTimeout = 30 * time.Second

// Server accepts logon connections. Each connection runs its own goroutine
// through the challenge/proof/realm-list exchange.
type Server struct {
	cfg      *config.Config
	accounts *store.AccountDB
	listener net.Listener
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewServer(cfg *config.Config, accounts *store.AccountDB, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Network.AuthBindAddress)
	if err != nil {
		return nil, fmt.Errorf("listen auth: %w", err)
	}
	return &Server{
		cfg:      cfg,
		accounts: accounts,
		listener: ln,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("auth accept failed", zap.Error(err))
			continue
		}
		go s.handleConn(conn)
	}
}

// Shutdown stops accepting logon connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	var exchange *srp.Server
	var account string

	for {
		conn.SetReadDeadline(time.Now().Add(connTimeout))
		cmd, err := r.ReadByte()
		if err != nil {
			return
		}

		switch cmd {
		case cmdLogonChallenge:
			exchange, account, err = s.handleChallenge(conn, r)
		case cmdLogonProof:
			if exchange == nil {
				s.log.Warn("logon proof before challenge",
					zap.String("ip", conn.RemoteAddr().String()))
				return
			}
			err = s.handleProof(conn, r, exchange, account)
		case cmdRealmList:
			err = s.handleRealmList(conn, r)
		default:
			s.log.Warn("unknown logon command",
				zap.Uint8("cmd", cmd),
				zap.String("ip", conn.RemoteAddr().String()))
			return
		}
		if err != nil {
			if err != io.EOF {
				s.log.Debug("logon exchange ended", zap.Error(err))
			}
			return
		}
	}
}

// handleChallenge reads CMD_AUTH_LOGON_CHALLENGE and answers with the SRP
// group parameters and this account's salt and B.
func (s *Server) handleChallenge(conn net.Conn, r *bufio.Reader) (*srp.Server, string, error) {
	// error u8, size u16, game[4], version[3], build u16, platform[4],
	// os[4], locale[4], tz u32, ip u32, name length u8
	var fixed [33]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, "", err
	}
	nameLen := int(fixed[32])
	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return nil, "", err
	}
	account := string(nameBuf)
	build := binary.LittleEndian.Uint16(fixed[10:12])

	acct, ok := s.accounts.Lookup(account)
	if !ok {
		s.log.Info("logon for unknown account", zap.String("account", account))
		_, err := conn.Write([]byte{cmdLogonChallenge, 0x00, resultUnknownAccount})
		return nil, "", err
	}

	exchange, err := srp.NewServer(acct.Name, acct.Salt, acct.Verifier)
	if err != nil {
		return nil, "", fmt.Errorf("start srp exchange: %w", err)
	}

	b := exchange.PublicKey()
	salt := exchange.Salt()
	prime := exchange.Prime()

	out := make([]byte, 0, 119)
	out = append(out, cmdLogonChallenge, 0x00, resultSuccess)
	out = append(out, b[:]...)
	out = append(out, 1, exchange.Generator())
	out = append(out, byte(len(prime)))
	out = append(out, prime[:]...)
	out = append(out, salt[:]...)
	out = append(out, make([]byte, 16)...) // crc salt, unused
	out = append(out, 0)                   // no security flags

	s.log.Info("logon challenge",
		zap.String("account", account),
		zap.Uint16("build", build),
		zap.String("ip", conn.RemoteAddr().String()))

	if _, err := conn.Write(out); err != nil {
		return nil, "", err
	}
	return exchange, account, nil
}

// handleProof reads CMD_AUTH_LOGON_PROOF, verifies M1, and on success
// stores the session key for the world server to check against.
func (s *Server) handleProof(conn net.Conn, r *bufio.Reader, exchange *srp.Server, account string) error {
	// A[32], M1[20], crc[20], key count u8, security flags u8
	var body [74]byte
	if _, err := io.ReadFull(r, body[:]); err != nil {
		return err
	}
	var clientPublic [srp.PublicSize]byte
	var clientProof [srp.ProofSize]byte
	copy(clientPublic[:], body[0:32])
	copy(clientProof[:], body[32:52])

	serverProof, key, err := exchange.Verify(clientPublic, clientProof)
	if err != nil {
		s.log.Info("logon proof rejected",
			zap.String("account", account),
			zap.Error(err))
		_, werr := conn.Write([]byte{cmdLogonProof, resultIncorrectPassword})
		if werr != nil {
			return werr
		}
		return fmt.Errorf("proof rejected: %w", err)
	}

	s.accounts.SetSessionKey(account, key)
	s.log.Info("logon proof accepted", zap.String("account", account))

	out := make([]byte, 0, 26)
	out = append(out, cmdLogonProof, resultSuccess)
	out = append(out, serverProof[:]...)
	out = append(out, 0, 0, 0, 0) // account flags
	_, err = conn.Write(out)
	return err
}

// handleRealmList advertises the single configured realm.
func (s *Server) handleRealmList(conn net.Conn, r *bufio.Reader) error {
	var padding [4]byte
	if _, err := io.ReadFull(r, padding[:]); err != nil {
		return err
	}

	body := make([]byte, 0, 64)
	body = binary.LittleEndian.AppendUint32(body, 0) // unused
	body = append(body, 1)                           // realm count
	body = binary.LittleEndian.AppendUint32(body, 0) // realm type: PvE
	body = append(body, 0)                           // flags
	body = append(body, s.cfg.Server.Name...)
	body = append(body, 0)
	body = append(body, s.cfg.Network.RealmAddress...)
	body = append(body, 0)
	body = binary.LittleEndian.AppendUint32(body, 0) // population
	body = append(body, 0)                           // character count
	body = append(body, 1)                           // timezone
	body = append(body, byte(s.cfg.Server.ID))
	body = append(body, 0, 0) // footer

	out := make([]byte, 0, len(body)+3)
	out = append(out, cmdRealmList)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(body)))
	out = append(out, body...)
	_, err := conn.Write(out)
	return err
}
