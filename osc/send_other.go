//go:build !linux

package osc

import "net"

// sendMore falls back to a plain write where MSG_MORE does not exist.
func sendMore(conn *net.UDPConn, b []byte) (int, error) {
	return conn.Write(b)
}
