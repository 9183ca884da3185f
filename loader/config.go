// File: loader/config.go
// Package loader
// License: Apache-2.0
//
// Run configuration with named defaults, resolved once per engine.

package loader

import (
	"net/netip"
	"time"

	"github.com/kevinmiles/wsflood/api"
)

// Named defaults applied when the corresponding Config field is unset.
const (
	DefaultThreadCount       = 1
	DefaultConnectionCount   = 1
	DefaultReceiveBufferSize = 32
	DefaultSendBufferSize    = 32
	DefaultNoDelay           = true
)

// Config holds the validated run parameters. Zero fields take the named
// defaults above; nil NoDelay means DefaultNoDelay. Durations of zero mean
// "not configured": no connect timeout, no hold lifetime.
//
// Endpoints must already be resolved; the engine does no DNS. Only the
// first endpoint is dialed (known limitation, kept for compatibility).
type Config struct {
	ThreadCount        int
	ConnectionCount    int
	ConnectTimeout     time.Duration
	ConnectionLifetime time.Duration
	ReceiveBufferSize  int
	SendBufferSize     int
	NoDelay            *bool
	Endpoints          []netip.AddrPort
}

// resolvedConfig is the immutable form the engine runs with; built once by
// NewEngine, never mutated afterwards.
type resolvedConfig struct {
	threads        int
	connections    int
	connectTimeout time.Duration
	lifetime       time.Duration
	rcvBuf         int
	sndBuf         int
	noDelay        bool
	target         netip.AddrPort
}

func (c Config) validate() error {
	if len(c.Endpoints) == 0 {
		return api.InvalidArgumentf("config needs at least one endpoint")
	}
	if !c.Endpoints[0].IsValid() {
		return api.InvalidArgumentf("endpoint %q is not a resolved address", c.Endpoints[0])
	}
	if c.ThreadCount < 0 {
		return api.InvalidArgumentf("thread count %d is negative", c.ThreadCount)
	}
	if c.ConnectionCount < 0 {
		return api.InvalidArgumentf("connection count %d is negative", c.ConnectionCount)
	}
	if c.ConnectTimeout < 0 || c.ConnectionLifetime < 0 {
		return api.InvalidArgumentf("durations must not be negative")
	}
	if c.ReceiveBufferSize < 0 || c.SendBufferSize < 0 {
		return api.InvalidArgumentf("buffer sizes must not be negative")
	}
	return nil
}

func (c Config) resolve() resolvedConfig {
	r := resolvedConfig{
		threads:        c.ThreadCount,
		connections:    c.ConnectionCount,
		connectTimeout: c.ConnectTimeout,
		lifetime:       c.ConnectionLifetime,
		rcvBuf:         c.ReceiveBufferSize,
		sndBuf:         c.SendBufferSize,
		noDelay:        DefaultNoDelay,
		target:         c.Endpoints[0],
	}
	if r.threads == 0 {
		r.threads = DefaultThreadCount
	}
	if r.connections == 0 {
		r.connections = DefaultConnectionCount
	}
	if r.rcvBuf == 0 {
		r.rcvBuf = DefaultReceiveBufferSize
	}
	if r.sndBuf == 0 {
		r.sndBuf = DefaultSendBufferSize
	}
	if c.NoDelay != nil {
		r.noDelay = *c.NoDelay
	}
	return r
}
