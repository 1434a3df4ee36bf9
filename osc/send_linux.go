//go:build linux

package osc

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// sendMore sends b with MSG_MORE set, so the kernel appends the next send to
// the same datagram.
func sendMore(conn *net.UDPConn, b []byte) (int, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return 0, err
	}

	var (
		n    int
		serr error
	)
	err = rc.Write(func(fd uintptr) bool {
		n, serr = unix.SendmsgN(int(fd), b, nil, nil, unix.MSG_MORE)
		return serr != unix.EAGAIN
	})
	if err != nil {
		return 0, err
	}
	if serr != nil {
		return n, os.NewSyscallError("sendmsg", serr)
	}
	return n, nil
}
