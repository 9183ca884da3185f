// File: loader/engine.go
// Package loader
// License: Apache-2.0
//
// Engine fan-out: one goroutine per plan worker, private held sets, a
// single join barrier. Outcomes surface only through the sink.

package loader

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"runtime"
	"sync"
	"time"

	"github.com/kevinmiles/wsflood/api"
	"github.com/kevinmiles/wsflood/protocol"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSink routes lifecycle events to s instead of the default no-op sink.
// The sink is invoked concurrently by all workers.
func WithSink(s api.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithDialer supplies a base dialer, e.g. to bind workers to local IP
// aliases. The engine still overlays its own timeout and socket tuning.
func WithDialer(d *net.Dialer) Option {
	return func(e *Engine) {
		if d != nil {
			e.baseDialer = d
		}
	}
}

// WithHandshake makes every established connection perform a WebSocket
// opening handshake for host/path before it joins the worker's held set.
// Connections whose handshake fails are closed and skipped.
func WithHandshake(host, path string, opts *protocol.HandshakeOptions) Option {
	return func(e *Engine) {
		e.handshake = func(nc net.Conn) error {
			return protocol.Handshake(nc, host, path, opts)
		}
	}
}

// Engine partitions a connection workload across parallel workers. All
// fields are fixed at construction; Start may be called once per run.
type Engine struct {
	cfg        resolvedConfig
	plan       LoadPlan
	sink       api.Sink
	baseDialer *net.Dialer
	handshake  func(net.Conn) error

	// dial is the connect primitive; tests swap it for a fake.
	dial func(target netip.AddrPort) (net.Conn, error)
}

// NewEngine validates cfg, resolves its defaults and derives the load plan.
// Argument problems fail here with api.ErrInvalidArgument; nothing fails
// later — runtime conditions are absorbed and reported through the sink.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg.resolve(),
		sink:       api.NopSink(),
		baseDialer: &net.Dialer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.plan = DerivePlan(e.cfg.threads, e.cfg.connections, runtime.NumCPU())
	if e.dial == nil {
		e.dial = e.dialTCP
	}
	return e, nil
}

// Plan returns the load plan derived at construction.
func (e *Engine) Plan() LoadPlan { return e.plan }

// Start spawns one worker per plan slot and blocks until every worker has
// finished its full attempt, hold and teardown cycle. It reports outcomes
// only through the sink; a started run always runs to completion.
func (e *Engine) Start() {
	var wg sync.WaitGroup
	for i := 0; i < e.plan.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			e.performLoad(worker, e.plan.PerWorker, e.cfg.target)
		}(i)
	}
	wg.Wait()
}

// performLoad runs one worker: attempt every slot in order, hold the
// established connections for the configured lifetime, then close them in
// the order they were opened. Every per-slot failure is absorbed locally.
func (e *Engine) performLoad(worker, slots int, target netip.AddrPort) {
	held := make([]*Connection, 0, slots)

	for slot := 0; slot < slots; slot++ {
		e.sink.Record(fmt.Sprintf("connect-start worker=%d slot=%d target=%s", worker, slot, target))

		nc, err := e.dial(target)
		if err != nil {
			// The timeout classification only exists when a connect
			// timeout is configured; an unbounded synchronous connect
			// reports every socket error, ETIMEDOUT included, as a
			// plain failure.
			var ne net.Error
			if e.cfg.connectTimeout > 0 && errors.As(err, &ne) && ne.Timeout() {
				e.sink.Record(fmt.Sprintf("connect-timeout worker=%d slot=%d after=%s", worker, slot, e.cfg.connectTimeout))
			} else {
				e.sink.Record(fmt.Sprintf("connect-failure worker=%d slot=%d err=%v", worker, slot, err))
			}
			continue
		}
		e.sink.Record(fmt.Sprintf("connect-ok worker=%d slot=%d local=%s", worker, slot, nc.LocalAddr()))

		conn := &Connection{slot: slot, nc: nc, state: StateConnecting}
		if e.handshake != nil {
			if err := e.handshake(nc); err != nil {
				e.sink.Record(fmt.Sprintf("handshake-rejected worker=%d slot=%d err=%v", worker, slot, err))
				conn.transition(StateErrored)
				_ = conn.Close()
				continue
			}
			e.sink.Record(fmt.Sprintf("handshake-ok worker=%d slot=%d", worker, slot))
		}
		conn.transition(StateOpen)
		held = append(held, conn)
	}

	if e.cfg.lifetime > 0 {
		time.Sleep(e.cfg.lifetime)
	}

	for _, c := range held {
		if err := c.Close(); err != nil {
			e.sink.Record(fmt.Sprintf("close-failure worker=%d slot=%d err=%v", worker, c.slot, err))
			continue
		}
		e.sink.Record(fmt.Sprintf("close-ok worker=%d slot=%d", worker, c.slot))
	}
}

// dialTCP is the real connect primitive: the base dialer plus the run's
// connect timeout and socket tuning. With no timeout configured the connect
// is synchronous and unbounded; with one, net.Dialer aborts the half-open
// socket on expiry, so a late completion can never surface afterwards.
func (e *Engine) dialTCP(target netip.AddrPort) (net.Conn, error) {
	d := *e.baseDialer
	d.Timeout = e.cfg.connectTimeout
	tuner := &Tuner{RcvBuf: e.cfg.rcvBuf, SndBuf: e.cfg.sndBuf, NoDelay: e.cfg.noDelay}
	d.Control = tuner.Control
	return d.Dial("tcp", target.String())
}
