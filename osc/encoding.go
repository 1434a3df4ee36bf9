package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

////
// De/Encoding functions
////

const bit32Size = 4

// parseBlob parses an OSC blob from the start of data. It returns the blob,
// which aliases data, and the number of bytes consumed including padding.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: missing length: %w", io.ErrUnexpectedEOF)
	}

	// First, get the length
	blobLen := binary.BigEndian.Uint32(data[:bit32Size])
	data = data[bit32Size:]

	if uint64(blobLen) > uint64(len(data)) {
		return nil, 0, fmt.Errorf("parseBlob: invalid blob length %d: %w", blobLen, io.ErrUnexpectedEOF)
	}

	n := int(blobLen)
	padded := n + padBytesNeeded(n)
	if padded > len(data) {
		return nil, 0, fmt.Errorf("parseBlob: missing padding: %w", io.ErrUnexpectedEOF)
	}

	return data[:n:n], bit32Size + padded, nil
}

// appendBlob appends data as an OSC blob to b. If the length of data isn't
// 32-bit aligned, padding bytes will be added.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return appendPadding(b, len(data))
}

// blobSize is the encoded size of a blob of n bytes.
func blobSize(n int) int {
	return bit32Size + n + padBytesNeeded(n)
}

// parsePaddedString reads a padded string from the given slice and returns
// the string and the number of bytes read. The string aliases data.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedString: missing terminator: %w", io.ErrUnexpectedEOF)
	}

	n := pos + 1 + padBytesNeeded(pos+1)
	if n > len(data) {
		return "", 0, fmt.Errorf("parsePaddedString: missing padding: %w", io.ErrUnexpectedEOF)
	}

	str := data[:pos]

	return *(*string)(unsafe.Pointer(&str)), n, nil
}

// appendPaddedString appends str, its NUL terminator and padding to b. An
// empty string becomes four zero bytes.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)
	return appendPadding(b, len(str)+1)
}

// paddedStringSize is the encoded size of str.
func paddedStringSize(str string) int {
	return len(str) + 1 + padBytesNeeded(len(str)+1)
}

// appendPadding appends the zero bytes needed to align an element of
// elementLen bytes.
func appendPadding(b []byte, elementLen int) []byte {
	for i := padBytesNeeded(elementLen); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
