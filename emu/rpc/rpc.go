// Package rpc exposes emulator controls over net/rpc, for driving a running
// emulator from another process.
package rpc

import (
	"net"

	"nescore/emu/log"
)

var modRPC = log.NewModule("rpc")

// UnusedPort returns a free TCP port on localhost.
func UnusedPort() int {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		panic("pickUnusedPort failed: " + err.Error())
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		panic("pickUnusedPort failed: " + err.Error())
	}
	return port
}
