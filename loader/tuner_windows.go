//go:build windows
// +build windows

// File: loader/tuner_windows.go
// Package loader - Windows socket tuning via setsockopt.

package loader

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// SO_EXCLUSIVEADDRUSE is the bitwise complement of SO_REUSEADDR; x/sys does
// not export it.
const soExclusiveAddrUse = ^windows.SO_REUSEADDR

func (t *Tuner) apply(fd uintptr) error {
	h := windows.Handle(fd)
	if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_RCVBUF, t.RcvBuf); err != nil {
		return fmt.Errorf("SO_RCVBUF: %w", err)
	}
	if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_SNDBUF, t.SndBuf); err != nil {
		return fmt.Errorf("SO_SNDBUF: %w", err)
	}
	if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, soExclusiveAddrUse, 1); err != nil {
		return fmt.Errorf("SO_EXCLUSIVEADDRUSE: %w", err)
	}
	nodelay := 0
	if t.NoDelay {
		nodelay = 1
	}
	if err := windows.SetsockoptInt(h, windows.IPPROTO_TCP, windows.TCP_NODELAY, nodelay); err != nil {
		return fmt.Errorf("TCP_NODELAY: %w", err)
	}
	return nil
}
