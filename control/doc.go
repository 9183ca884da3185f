// control/doc.go
//
// Package control provides the ambient observability pieces around the load
// engine: a thread-safe counter registry, a sink that tallies events by
// class, and an asynchronous sink that serializes concurrent workers onto a
// single backend.
package control
