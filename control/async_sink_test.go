package control_test

import (
	"sync"
	"testing"

	"github.com/kevinmiles/wsflood/api"
	"github.com/kevinmiles/wsflood/control"
)

// countingBackend deliberately has no locking: the AsyncSink contract is
// that the backend only ever sees one call at a time.
type countingBackend struct {
	events []string
}

func (b *countingBackend) Record(event string) { b.events = append(b.events, event) }

func TestAsyncSinkDeliversAllEventsBeforeCloseReturns(t *testing.T) {
	backend := &countingBackend{}
	sink := control.NewAsyncSink(backend)

	const workers = 8
	const perWorker = 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				sink.Record("connect-ok worker=test")
			}
		}()
	}
	wg.Wait()
	sink.Close()

	if got := len(backend.events); got != workers*perWorker {
		t.Errorf("backend saw %d events, want %d", got, workers*perWorker)
	}
}

func TestAsyncSinkCloseIsIdempotentAndDropsLateEvents(t *testing.T) {
	backend := &countingBackend{}
	sink := control.NewAsyncSink(backend)

	sink.Record("close-ok worker=0 slot=0")
	sink.Close()
	sink.Close()
	sink.Record("dropped after close")

	if got := len(backend.events); got != 1 {
		t.Errorf("backend saw %d events, want 1", got)
	}
}

func TestAsyncSinkPreservesOrderFromOneCaller(t *testing.T) {
	backend := &countingBackend{}
	sink := control.NewAsyncSink(backend)

	want := []string{"connect-start a", "connect-ok a", "close-ok a"}
	for _, e := range want {
		sink.Record(e)
	}
	sink.Close()

	if len(backend.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(backend.events), len(want))
	}
	for i, e := range want {
		if backend.events[i] != e {
			t.Errorf("event %d = %q, want %q", i, backend.events[i], e)
		}
	}
}

func TestAsyncSinkNilBackend(t *testing.T) {
	sink := control.NewAsyncSink(nil)
	sink.Record("discarded")
	sink.Close()
}

var _ api.Sink = (*control.AsyncSink)(nil)
