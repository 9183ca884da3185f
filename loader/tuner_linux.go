//go:build linux
// +build linux

// File: loader/tuner_linux.go
// Package loader - Linux socket tuning via setsockopt.

package loader

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// apply sets the configured options on the raw socket. Exclusive address
// use is the Linux default (SO_REUSEADDR is simply never enabled), so only
// the buffer sizes and TCP_NODELAY need syscalls here.
func (t *Tuner) apply(fd uintptr) error {
	h := int(fd)
	if err := unix.SetsockoptInt(h, unix.SOL_SOCKET, unix.SO_RCVBUF, t.RcvBuf); err != nil {
		return fmt.Errorf("SO_RCVBUF: %w", err)
	}
	if err := unix.SetsockoptInt(h, unix.SOL_SOCKET, unix.SO_SNDBUF, t.SndBuf); err != nil {
		return fmt.Errorf("SO_SNDBUF: %w", err)
	}
	nodelay := 0
	if t.NoDelay {
		nodelay = 1
	}
	if err := unix.SetsockoptInt(h, unix.IPPROTO_TCP, unix.TCP_NODELAY, nodelay); err != nil {
		return fmt.Errorf("TCP_NODELAY: %w", err)
	}
	return nil
}
