package osc

// Batch collects several messages into one datagram. The messages are
// written back to back with no envelope; a receiver decodes them with the
// ordinary Decode loop. A Batch is not an OSC bundle and carries no time tag.
//
// The zero value is an empty batch using the default Codec.
type Batch struct {
	Codec Codec

	buf   []byte
	count int
}

// Verify that Batch implements the Packet interface.
var _ Packet = (*Batch)(nil)

// NewBatch returns an empty batch using codec.
func NewBatch(codec Codec) *Batch {
	return &Batch{Codec: codec}
}

// Append encodes a message onto the batch. If it does not fit, the batch is
// left unchanged and the error wraps ErrOverflow.
func (b *Batch) Append(path, typeTags string, args ...Argument) error {
	return b.AppendMessage(&Message{Path: path, TypeTags: typeTags, Arguments: args})
}

// AppendMessage encodes m onto the batch.
func (b *Batch) AppendMessage(m *Message) error {
	if b.buf == nil {
		b.buf = make([]byte, 0, b.Codec.maxPacketSize())
	}
	buf, err := b.Codec.AppendMessage(b.buf, m)
	if err != nil {
		return err
	}
	b.buf = buf
	b.count++
	return nil
}

// Len returns the encoded size of the batch.
func (b *Batch) Len() int { return len(b.buf) }

// Count returns the number of messages in the batch.
func (b *Batch) Count() int { return b.count }

// Bytes returns the encoded batch. It is valid until the next Append or Reset.
func (b *Batch) Bytes() []byte { return b.buf }

// Reset empties the batch, keeping its buffer.
func (b *Batch) Reset() {
	b.buf = b.buf[:0]
	b.count = 0
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Batch) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out, nil
}
