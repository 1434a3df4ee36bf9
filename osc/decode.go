package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Handler is called once for every decoded message.
//
// The message and its string and blob arguments point into the receive
// buffer and are only valid until the handler returns. Use Message.Clone to
// keep one.
type Handler func(m *Message)

// Decode decodes every message in data and calls h for each one, in order.
// It returns the number of messages delivered.
//
// The whole datagram is parsed before h is called: if any part of it is
// malformed, h is never called and the error wraps ErrProtocol. An empty
// datagram holds zero messages. A nil h only validates and counts.
func (c Codec) Decode(data []byte, h Handler) (int, error) {
	msgs, err := c.parse(data, nil)
	if err != nil {
		return 0, err
	}
	if h != nil {
		for i := range msgs {
			h(&msgs[i])
		}
	}
	return len(msgs), nil
}

// DecodeAll decodes every message in data. The returned messages are copies
// and do not reference data.
func (c Codec) DecodeAll(data []byte) ([]*Message, error) {
	msgs, err := c.parse(data, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*Message, len(msgs))
	for i := range msgs {
		out[i] = msgs[i].Clone()
	}
	return out, nil
}

// parse decodes data into msgs, reusing its backing array and the argument
// slices of its elements.
func (c Codec) parse(data []byte, msgs []Message) ([]Message, error) {
	msgs = msgs[:0]
	for off := 0; off < len(data); {
		if len(msgs) < cap(msgs) {
			msgs = msgs[:len(msgs)+1]
		} else {
			msgs = append(msgs, Message{})
		}
		m := &msgs[len(msgs)-1]

		n, err := c.parseMessage(data[off:], m)
		if err != nil {
			return msgs[:0], fmt.Errorf("message %d at offset %d: %w", len(msgs)-1, off, err)
		}
		off += n
	}
	return msgs, nil
}

// parseMessage decodes one message from the start of data into m and
// returns the number of bytes it occupies.
func (c Codec) parseMessage(data []byte, m *Message) (int, error) {
	if len(data) == 0 || data[0] != '/' {
		return 0, protocolErrorf("path must start with '/'")
	}

	path, n, err := parsePaddedString(data)
	if err != nil {
		return 0, protocolErrorf("path: %v", err)
	}

	if n >= len(data) || data[n] != ',' {
		return 0, protocolErrorf("type tags of %q must start with ','", path)
	}
	tags, tn, err := parsePaddedString(data[n:])
	if err != nil {
		return 0, protocolErrorf("type tags of %q: %v", path, err)
	}
	n += tn

	m.Path = path
	m.TypeTags = tags
	m.Arguments = m.Arguments[:0]

	order := c.floatOrder()
	for i := 1; i < len(tags); i++ {
		rest := data[n:]
		switch TypeTag(tags[i]) {
		case TypeInt32:
			if len(rest) < bit32Size {
				return 0, protocolErrorf("%s: int32 argument %d truncated", path, i-1)
			}
			m.Arguments = append(m.Arguments, Int32(binary.BigEndian.Uint32(rest)))
			n += bit32Size

		case TypeFloat32:
			if len(rest) < bit32Size {
				return 0, protocolErrorf("%s: float32 argument %d truncated", path, i-1)
			}
			m.Arguments = append(m.Arguments, Float32(math.Float32frombits(order.Uint32(rest))))
			n += bit32Size

		case TypeString:
			s, sn, err := parsePaddedString(rest)
			if err != nil {
				return 0, protocolErrorf("%s: string argument %d: %v", path, i-1, err)
			}
			m.Arguments = append(m.Arguments, String(s))
			n += sn

		case TypeBlob:
			b, bn, err := parseBlob(rest)
			if err != nil {
				return 0, protocolErrorf("%s: blob argument %d: %v", path, i-1, err)
			}
			m.Arguments = append(m.Arguments, Blob(b))
			n += bn

		default:
			return 0, protocolErrorf("%s: unsupported type tag %q", path, tags[i])
		}
	}

	return n, nil
}

// unmarshalMessage decodes exactly one message from a private copy of data.
func (c Codec) unmarshalMessage(data []byte, m *Message) error {
	buf := bytes.Clone(data)
	n, err := c.parseMessage(buf, m)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("UnmarshalBinary: %w", protocolErrorf("%d trailing bytes", len(buf)-n))
	}
	return nil
}
