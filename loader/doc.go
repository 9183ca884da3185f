// File: loader/doc.go
// License: Apache-2.0

// Package loader is the connection load engine. It derives a load plan from
// an immutable Config, fans the connection workload out across parallel
// workers, holds established connections for the configured lifetime and
// tears them down, reporting every lifecycle event through an api.Sink.
//
// Workers never share connection state; the sink is the only shared object.
// Per-connection failures are absorbed and reported, never propagated — a
// started run always completes.
package loader
