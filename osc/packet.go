package osc

import (
	"encoding"
	"encoding/binary"
)

// MaxPacketSize is the default size limit of one datagram, and the default
// receive buffer size.
const MaxPacketSize = 1536

// Packet is the interface for Message and Batch.
type Packet interface {
	encoding.BinaryMarshaler
}

// Codec encodes and decodes OSC messages. The zero value is ready to use:
// packets are limited to MaxPacketSize and floats are big-endian.
//
// Codec holds no mutable state and may be shared freely.
type Codec struct {
	// MaxPacketSize limits the size of an encoded datagram.
	MaxPacketSize int

	// FloatOrder is the byte order of 'f' arguments on the wire. Both ends
	// must agree. Use binary.NativeEndian to talk to peers that pass host
	// floats through untouched.
	FloatOrder binary.ByteOrder
}

var defaultCodec Codec

func (c Codec) maxPacketSize() int {
	if c.MaxPacketSize <= 0 {
		return MaxPacketSize
	}
	return c.MaxPacketSize
}

func (c Codec) floatOrder() binary.ByteOrder {
	if c.FloatOrder == nil {
		return binary.BigEndian
	}
	return c.FloatOrder
}

// Encode encodes a single message with the default Codec.
func Encode(path, typeTags string, args ...Argument) ([]byte, error) {
	return defaultCodec.Encode(path, typeTags, args...)
}

// Decode decodes every message in data with the default Codec and calls h
// for each one, in order.
func Decode(data []byte, h Handler) (int, error) {
	return defaultCodec.Decode(data, h)
}

// DecodeAll decodes every message in data with the default Codec. The
// returned messages do not reference data.
func DecodeAll(data []byte) ([]*Message, error) {
	return defaultCodec.DecodeAll(data)
}
