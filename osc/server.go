package osc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// minPollTimeout is the shortest wait of a poll. A read deadline that has
// already passed fails without looking at the socket, so a zero timeout
// waits this long instead.
const minPollTimeout = time.Millisecond

// Listen opens an Endpoint bound to port on all IPv4 interfaces.
func Listen(port int) (*Endpoint, error) {
	return Open(&Config{LocalPort: port})
}

func listen(cfg *Config) (*net.UDPConn, error) {
	lc := net.ListenConfig{}
	if cfg.ReuseAddr {
		lc.Control = reuseAddr
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.LocalPort)))
	if err != nil {
		return nil, classifyListenError(err)
	}
	return pc.(*net.UDPConn), nil
}

// Receive waits up to timeout for one datagram and returns it with its
// sender. A negative timeout waits forever. When the timeout elapses it
// returns nil, nil, nil. A datagram larger than the receive buffer is
// dropped and the error wraps ErrProtocol.
//
// The returned slice is the endpoint's receive buffer and is overwritten by
// the next Receive or Poll.
func (e *Endpoint) Receive(timeout time.Duration) ([]byte, *net.UDPAddr, error) {
	if e.conn == nil {
		return nil, nil, ErrClosed
	}

	var deadline time.Time
	if timeout >= 0 {
		if timeout < minPollTimeout {
			timeout = minPollTimeout
		}
		deadline = time.Now().Add(timeout)
	}
	if err := e.conn.SetReadDeadline(deadline); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	n, addr, err := e.conn.ReadFromUDP(e.rbuf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil, nil
		}
		return nil, addr, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if n <= 0 {
		return nil, addr, fmt.Errorf("%w: empty datagram", ErrTransport)
	}
	// The kernel drops whatever does not fit, so a full buffer means the
	// datagram was cut.
	if n == len(e.rbuf) {
		return nil, addr, fmt.Errorf("%w: datagram exceeds %d byte buffer", ErrProtocol, len(e.rbuf)-1)
	}

	return e.rbuf[:n], addr, nil
}

// Poll waits up to timeout for one datagram, decodes it and calls h for
// every message in it, in order. It returns the number of messages, zero
// when the timeout elapsed.
//
// A malformed datagram is dropped whole: h is not called and the error
// wraps ErrProtocol. The endpoint stays usable. Messages passed to h are
// only valid until h returns.
func (e *Endpoint) Poll(timeout time.Duration, h Handler) (int, error) {
	data, addr, err := e.Receive(timeout)
	if err != nil {
		if errors.Is(err, ErrProtocol) {
			e.log.Debug("osc: dropped oversized datagram", zap.Stringer("from", addr), zap.Error(err))
		}
		return 0, err
	}
	if data == nil {
		return 0, nil
	}

	e.msgs, err = e.codec.parse(data, e.msgs)
	if err != nil {
		e.log.Debug("osc: dropped malformed datagram",
			zap.Int("len", len(data)),
			zap.Stringer("from", addr),
			zap.Error(err),
		)
		return 0, err
	}

	if h != nil {
		for i := range e.msgs {
			h(&e.msgs[i])
		}
	}
	return len(e.msgs), nil
}
