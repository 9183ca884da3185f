// control/async_sink.go
//
// Asynchronous sink: concurrent workers enqueue, one goroutine drains, so a
// backend with no thread-safety guarantee still sees strictly serialized
// calls and workers never block on slow output.

package control

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/kevinmiles/wsflood/api"
)

// AsyncSink decouples Record callers from the backend with an unbounded
// FIFO. Events recorded before Close returns are all delivered; events
// recorded after Close are dropped.
type AsyncSink struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending *queue.Queue
	backend api.Sink
	closed  bool
	done    chan struct{}
}

// NewAsyncSink starts the drain goroutine for backend.
func NewAsyncSink(backend api.Sink) *AsyncSink {
	if backend == nil {
		backend = api.NopSink()
	}
	s := &AsyncSink{
		pending: queue.New(),
		backend: backend,
		done:    make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.drain()
	return s
}

// Record enqueues one event. Never blocks on the backend.
func (s *AsyncSink) Record(event string) {
	s.mu.Lock()
	if !s.closed {
		s.pending.Add(event)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// Close flushes the queue, stops the drain goroutine and waits for it.
// Idempotent; every call blocks until the flush is complete.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.cond.Signal()
	}
	s.mu.Unlock()
	<-s.done
}

func (s *AsyncSink) drain() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for s.pending.Length() == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.pending.Length() == 0 {
			s.mu.Unlock()
			return
		}
		event := s.pending.Remove().(string)
		s.mu.Unlock()
		s.backend.Record(event)
	}
}
