package osc

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// SendFlag modifies a single send.
type SendFlag int

const (
	// SendMore asks the kernel to hold the datagram and coalesce it with the
	// next send. It is only a hint: it has an effect on Linux and is ignored
	// elsewhere.
	SendMore SendFlag = 1 << iota
)

// Dial opens an Endpoint connected to host:port from an ephemeral local port.
func Dial(host string, port int) (*Endpoint, error) {
	return Open(&Config{RemoteHost: host, RemotePort: port})
}

func dial(cfg *Config) (*net.UDPConn, error) {
	if cfg.RemotePort <= 0 || cfg.RemotePort > 0xffff {
		return nil, fmt.Errorf("%w: invalid remote port %d", ErrConnect, cfg.RemotePort)
	}

	raddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(cfg.RemoteHost, strconv.Itoa(cfg.RemotePort)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	d := net.Dialer{}
	if cfg.LocalPort != 0 {
		d.LocalAddr = &net.UDPAddr{IP: net.IPv4zero, Port: cfg.LocalPort}
		if cfg.ReuseAddr {
			d.Control = reuseAddr
		}
	}

	c, err := d.DialContext(context.Background(), "udp4", raddr.String())
	if err != nil {
		return nil, classifyDialError(err)
	}
	return c.(*net.UDPConn), nil
}

// Send writes b as a single datagram to the connected peer. A short write
// is an error wrapping ErrTransport; nothing is retried.
func (e *Endpoint) Send(b []byte, flags SendFlag) error {
	if e.conn == nil {
		return ErrClosed
	}
	if e.role != RoleConnected {
		return fmt.Errorf("%w: endpoint is not connected, use SendTo", ErrTransport)
	}

	var (
		n   int
		err error
	)
	if flags&SendMore != 0 {
		n, err = sendMore(e.conn, b)
	} else {
		n, err = e.conn.Write(b)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: sent %d of %d bytes", ErrTransport, n, len(b))
	}
	return nil
}

// SendTo writes b as a single datagram to addr. Only listeners can address
// datagrams; connected endpoints use Send.
func (e *Endpoint) SendTo(b []byte, addr *net.UDPAddr) error {
	if e.conn == nil {
		return ErrClosed
	}
	if e.role != RoleListener {
		return fmt.Errorf("%w: connected endpoint cannot address datagrams, use Send", ErrTransport)
	}

	n, err := e.conn.WriteToUDP(b, addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: sent %d of %d bytes", ErrTransport, n, len(b))
	}
	return nil
}

// SendMessage encodes one message with the endpoint's codec and sends it.
// Encoding errors wrap ErrParams or ErrOverflow and nothing is sent.
func (e *Endpoint) SendMessage(path, typeTags string, args ...Argument) error {
	return e.sendMessage(&Message{Path: path, TypeTags: typeTags, Arguments: args}, 0)
}

func (e *Endpoint) sendMessage(m *Message, flags SendFlag) error {
	b, err := e.codec.AppendMessage(e.wbuf[:0], m)
	if err != nil {
		return err
	}
	e.wbuf = b
	return e.Send(b, flags)
}

// SendPacket sends a Message or a Batch. Other packets are sent as their
// MarshalBinary output.
func (e *Endpoint) SendPacket(p Packet, flags SendFlag) error {
	switch p := p.(type) {
	case *Message:
		return e.sendMessage(p, flags)
	case *Batch:
		return e.Send(p.Bytes(), flags)
	case nil:
		return fmt.Errorf("%w: nil packet", ErrParams)
	default:
		b, err := p.MarshalBinary()
		if err != nil {
			return err
		}
		return e.Send(b, flags)
	}
}

// SendBatch sends every message in b as one datagram and empties b. An
// empty batch sends nothing. On error b is kept so the send can be retried.
func (e *Endpoint) SendBatch(b *Batch) error {
	if b.Len() == 0 {
		return nil
	}
	if err := e.Send(b.Bytes(), 0); err != nil {
		return err
	}
	b.Reset()
	return nil
}
