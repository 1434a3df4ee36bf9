package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern, a type tag string and zero or more arguments.
type Message struct {
	Path      string
	TypeTags  string
	Arguments []Argument
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The type tag string is derived from args.
func NewMessage(path string, args ...Argument) *Message {
	m := &Message{Path: path, TypeTags: ","}
	m.Append(args...)
	return m
}

// Append appends the given arguments and their type tags.
func (m *Message) Append(args ...Argument) {
	if m.TypeTags == "" {
		m.TypeTags = ","
	}
	tags := make([]byte, 0, len(m.TypeTags)+len(args))
	tags = append(tags, m.TypeTags...)
	for _, a := range args {
		tags = append(tags, byte(ToTypeTag(a)))
	}
	m.TypeTags = string(tags)
	m.Arguments = append(m.Arguments, args...)
}

// Clear clears the path and all arguments.
func (m *Message) Clear() {
	m.Path = ""
	m.TypeTags = ""
	m.Arguments = m.Arguments[:0]
}

// CountArguments returns the number of arguments.
func (m *Message) CountArguments() int {
	return len(m.Arguments)
}

// Equals reports whether m and o have the same path, type tags and
// arguments. Floats are compared bit for bit.
func (m *Message) Equals(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Path != o.Path || m.TypeTags != o.TypeTags || len(m.Arguments) != len(o.Arguments) {
		return false
	}
	for i, a := range m.Arguments {
		if !argEqual(a, o.Arguments[i]) {
			return false
		}
	}
	return true
}

func argEqual(a, b Argument) bool {
	switch a := a.(type) {
	case Int32:
		v, ok := b.(Int32)
		return ok && a == v
	case Float32:
		v, ok := b.(Float32)
		return ok && math.Float32bits(float32(a)) == math.Float32bits(float32(v))
	case String:
		v, ok := b.(String)
		return ok && a == v
	case Blob:
		v, ok := b.(Blob)
		return ok && bytes.Equal(a, v)
	default:
		return a == nil && b == nil
	}
}

// Clone returns a deep copy of m. Use it to keep a message delivered to a
// Handler past the end of the call.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := &Message{
		Path:      strings.Clone(m.Path),
		TypeTags:  strings.Clone(m.TypeTags),
		Arguments: make([]Argument, len(m.Arguments)),
	}
	for i, a := range m.Arguments {
		switch a := a.(type) {
		case String:
			c.Arguments[i] = String(strings.Clone(string(a)))
		case Blob:
			c.Arguments[i] = Blob(bytes.Clone(a))
		default:
			c.Arguments[i] = a
		}
	}
	return c
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.Path)
	if len(m.TypeTags) == 0 {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(m.TypeTags)
	for _, arg := range m.Arguments {
		sb.WriteByte(' ')
		sb.WriteString(argString(arg))
	}

	return sb.String()
}

// validate checks the path, the type tag string and that every argument
// matches its tag.
func (m *Message) validate() error {
	if len(m.Path) == 0 || m.Path[0] != '/' {
		return paramsErrorf("path %q must start with '/'", m.Path)
	}
	if strings.IndexByte(m.Path, 0) >= 0 {
		return paramsErrorf("path %q contains NUL", m.Path)
	}
	if len(m.TypeTags) == 0 || m.TypeTags[0] != ',' {
		return paramsErrorf("type tags %q must start with ','", m.TypeTags)
	}

	tags := m.TypeTags[1:]
	if len(tags) != len(m.Arguments) {
		return paramsErrorf("type tags %q describe %d arguments, got %d", m.TypeTags, len(tags), len(m.Arguments))
	}

	for i := 0; i < len(tags); i++ {
		t := TypeTag(tags[i])
		if !t.Valid() {
			return paramsErrorf("unsupported type tag %q", tags[i])
		}
		a := m.Arguments[i]
		if a == nil || a.TypeTag() != t {
			return paramsErrorf("argument %d is %T, type tag is '%c'", i, a, t)
		}
		if s, ok := a.(String); ok && strings.IndexByte(string(s), 0) >= 0 {
			return paramsErrorf("string argument %d contains NUL", i)
		}
	}

	return nil
}

// size returns the encoded size of a validated message.
func (m *Message) size() int {
	n := paddedStringSize(m.Path) + paddedStringSize(m.TypeTags)
	for _, a := range m.Arguments {
		switch a := a.(type) {
		case Int32, Float32:
			n += bit32Size
		case String:
			n += paddedStringSize(string(a))
		case Blob:
			n += blobSize(len(a))
		}
	}
	return n
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	return defaultCodec.AppendMessage(nil, m)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. data
// must hold exactly one message. The message does not reference data.
func (m *Message) UnmarshalBinary(data []byte) error {
	return defaultCodec.unmarshalMessage(data, m)
}

// NewMessageFromData returns a new message decoded from data.
func NewMessageFromData(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode encodes a single message.
func (c Codec) Encode(path, typeTags string, args ...Argument) ([]byte, error) {
	return c.AppendMessage(nil, &Message{Path: path, TypeTags: typeTags, Arguments: args})
}

// AppendMessage appends the encoding of m to dst. The packet size limit
// applies to the whole of dst, so several messages appended to one buffer
// share it. On error dst is returned unchanged.
func (c Codec) AppendMessage(dst []byte, m *Message) ([]byte, error) {
	if m == nil {
		return dst, paramsErrorf("AppendMessage: message is nil")
	}
	if err := m.validate(); err != nil {
		return dst, err
	}

	size := m.size()
	if limit := c.maxPacketSize(); len(dst)+size > limit {
		return dst, fmt.Errorf("%w: %d bytes, limit %d", ErrOverflow, len(dst)+size, limit)
	}

	b := dst
	if cap(b)-len(b) < size {
		b = make([]byte, len(dst), len(dst)+size)
		copy(b, dst)
	}

	b = appendPaddedString(b, m.Path)
	b = appendPaddedString(b, m.TypeTags)

	order := c.floatOrder()
	var word [bit32Size]byte
	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case Int32:
			b = binary.BigEndian.AppendUint32(b, uint32(t))
		case Float32:
			order.PutUint32(word[:], math.Float32bits(float32(t)))
			b = append(b, word[:]...)
		case String:
			b = appendPaddedString(b, string(t))
		case Blob:
			b = appendBlob(b, t)
		}
	}

	return b, nil
}
