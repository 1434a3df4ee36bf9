package osc

import (
	"net"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"
)

// Role tells whether an Endpoint listens on a local port or is connected to
// one remote peer.
type Role int

const (
	// RoleListener is bound to a local port and receives from any sender.
	RoleListener Role = iota
	// RoleConnected sends to, and only receives from, one peer.
	RoleConnected
)

func (r Role) String() string {
	switch r {
	case RoleListener:
		return "listener"
	case RoleConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Endpoint owns one UDP socket. It is not safe for concurrent use: run it
// from a single goroutine, or guard it yourself. Two endpoints are fully
// independent of each other.
type Endpoint struct {
	conn  *net.UDPConn
	role  Role
	codec Codec
	log   *zap.Logger

	rbuf []byte    // receive buffer plus one byte to detect truncation
	wbuf []byte    // encode scratch for SendMessage
	msgs []Message // decode scratch for Poll
}

// Open creates an Endpoint from cfg. A nil cfg means DefaultConfig.
//
// With a remote host the endpoint is connected to it, and bound to
// LocalPort first when that is set. Without one the endpoint listens on
// LocalPort on all IPv4 interfaces. Errors wrap ErrSocket, ErrBind or
// ErrConnect.
func Open(cfg *Config) (*Endpoint, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var (
		conn *net.UDPConn
		role Role
		err  error
	)
	if cfg.RemoteHost != "" {
		role = RoleConnected
		conn, err = dial(cfg)
	} else {
		role = RoleListener
		conn, err = listen(cfg)
	}
	if err != nil {
		return nil, err
	}

	e := &Endpoint{
		conn:  conn,
		role:  role,
		codec: cfg.Codec(),
		log:   cfg.logger(),
		rbuf:  make([]byte, cfg.bufferSize()+1),
	}
	e.setTOS(cfg.tos())

	e.log.Debug("osc: endpoint open",
		zap.Stringer("role", role),
		zap.Stringer("local", conn.LocalAddr()),
		zap.Stringer("remote", addrStringer{conn.RemoteAddr()}),
	)
	return e, nil
}

// setTOS marks outgoing packets for low latency. Failure is harmless.
func (e *Endpoint) setTOS(tos int) {
	if tos < 0 {
		return
	}
	if err := ipv4.NewConn(e.conn).SetTOS(tos); err != nil {
		e.log.Debug("osc: cannot set TOS", zap.Int("tos", tos), zap.Error(err))
	}
}

// Close releases the socket. Calling it again is a no-op.
func (e *Endpoint) Close() error {
	if e == nil || e.conn == nil {
		return nil
	}
	err := e.conn.Close()
	e.conn = nil
	e.log.Debug("osc: endpoint closed", zap.Stringer("role", e.role))
	return err
}

// Role returns the role the endpoint was opened with.
func (e *Endpoint) Role() Role { return e.role }

// Codec returns the codec used by SendMessage and Poll.
func (e *Endpoint) Codec() Codec { return e.codec }

// LocalAddr returns the local address, or nil once closed.
func (e *Endpoint) LocalAddr() net.Addr {
	if e.conn == nil {
		return nil
	}
	return e.conn.LocalAddr()
}

// RemoteAddr returns the connected peer, or nil for a listener or once
// closed.
func (e *Endpoint) RemoteAddr() net.Addr {
	if e.conn == nil {
		return nil
	}
	return e.conn.RemoteAddr()
}

// addrStringer prints a possibly nil net.Addr.
type addrStringer struct{ net.Addr }

func (a addrStringer) String() string {
	if a.Addr == nil {
		return "-"
	}
	return a.Addr.String()
}
