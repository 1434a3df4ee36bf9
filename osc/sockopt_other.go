//go:build !unix

package osc

import "syscall"

func reuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
