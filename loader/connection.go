// File: loader/connection.go
// Package loader
// License: Apache-2.0

package loader

import "net"

// ConnState tracks where a connection is in its lifecycle. Transitions are
// monotonic: a connection never moves to a lower-numbered state.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateTimedOut
	StateErrored
	StateClosed
)

var connStateNames = [...]string{"connecting", "open", "timed-out", "errored", "closed"}

func (s ConnState) String() string {
	if s < StateConnecting || s > StateClosed {
		return "unknown"
	}
	return connStateNames[s]
}

// Connection is one socket channel owned exclusively by the worker that
// created it. It is never shared across workers and never reused, so no
// locking guards its state.
type Connection struct {
	slot  int
	nc    net.Conn
	state ConnState
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() ConnState { return c.state }

// transition advances the state; regressions are ignored.
func (c *Connection) transition(s ConnState) {
	if s > c.state {
		c.state = s
	}
}

// Close tears the connection down at most once. A second call is a no-op
// returning nil; the socket error of the single real close is returned to
// the caller for reporting and the connection counts as closed either way.
func (c *Connection) Close() error {
	if c.state == StateClosed {
		return nil
	}
	err := c.nc.Close()
	c.state = StateClosed
	return err
}
