// File: api/sink.go
// Package api
//
// Event sink capability. The load engine reports every connection lifecycle
// event as a single string through a Sink; it never returns outcomes any
// other way.

package api

// Sink receives one lifecycle event per call.
//
// A Sink shared between engine workers is invoked concurrently and must be
// safe for concurrent use; wrap a plain backend in control.AsyncSink when it
// is not.
type Sink interface {
	Record(event string)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(event string)

func (f SinkFunc) Record(event string) { f(event) }

type nopSink struct{}

func (nopSink) Record(string) {}

// NopSink returns a Sink that discards every event. It is the engine default.
func NopSink() Sink { return nopSink{} }
