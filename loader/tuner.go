// File: loader/tuner.go
// Package loader
// License: Apache-2.0
//
// Socket tuning applied at connect time via the dialer's Control hook, so
// the options are on the socket before the TCP handshake starts.

package loader

import "syscall"

// Tuner applies the configured socket options: receive/send buffer sizes,
// TCP_NODELAY and exclusive address use. The per-platform apply lives in the
// build-tagged files next to this one.
type Tuner struct {
	RcvBuf  int
	SndBuf  int
	NoDelay bool
}

// Control is shaped for net.Dialer.Control.
func (t *Tuner) Control(network, address string, rc syscall.RawConn) error {
	var applyErr error
	if err := rc.Control(func(fd uintptr) {
		applyErr = t.apply(fd)
	}); err != nil {
		return err
	}
	return applyErr
}
