package osc

import (
	"errors"
	"fmt"
	"net"
	"os"
)

var (
	// ErrSocket is returned when the UDP socket itself cannot be created.
	ErrSocket = errors.New("osc: cannot create socket")

	// ErrBind is returned when the local port cannot be bound, usually
	// because it is already in use.
	ErrBind = errors.New("osc: cannot bind local port")

	// ErrConnect is returned when the remote address cannot be resolved or
	// connected.
	ErrConnect = errors.New("osc: cannot connect remote address")

	// ErrParams indicates a malformed path or type tag string, or a type tag
	// string that does not match the arguments. This is a caller bug.
	ErrParams = errors.New("osc: invalid parameters")

	// ErrOverflow indicates the encoded packet would not fit in the packet
	// size limit.
	ErrOverflow = errors.New("osc: packet too large")

	// ErrTransport wraps OS level send and receive failures. These are not
	// necessarily fatal; the operation may be retried.
	ErrTransport = errors.New("osc: transport failure")

	// ErrProtocol indicates a received datagram is not well-formed OSC. The
	// datagram is dropped, the endpoint stays usable.
	ErrProtocol = errors.New("osc: malformed packet")

	// ErrClosed is returned by operations on a closed Endpoint. It also
	// matches net.ErrClosed.
	ErrClosed = fmt.Errorf("osc: endpoint closed: %w", net.ErrClosed)
)

func paramsErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParams, fmt.Sprintf(format, args...))
}

func protocolErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}

// classifyListenError maps a failed listen to ErrSocket or ErrBind. Only a
// failing socket(2) call counts as ErrSocket.
func classifyListenError(err error) error {
	var se *os.SyscallError
	if errors.As(err, &se) && se.Syscall == "socket" {
		return fmt.Errorf("%w: %w", ErrSocket, err)
	}
	return fmt.Errorf("%w: %w", ErrBind, err)
}

// classifyDialError maps a failed dial to ErrSocket, ErrBind or ErrConnect.
func classifyDialError(err error) error {
	var se *os.SyscallError
	if errors.As(err, &se) {
		switch se.Syscall {
		case "socket":
			return fmt.Errorf("%w: %w", ErrSocket, err)
		case "bind":
			return fmt.Errorf("%w: %w", ErrBind, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrConnect, err)
}
