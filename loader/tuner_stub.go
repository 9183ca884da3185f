//go:build !linux && !windows
// +build !linux,!windows

// File: loader/tuner_stub.go
// Package loader - no-op socket tuning for other platforms.

package loader

func (t *Tuner) apply(fd uintptr) error {
	return nil
}
