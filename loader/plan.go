// File: loader/plan.go
// Package loader
// License: Apache-2.0

package loader

// LoadPlan is the workload partition derived once per run: how many workers
// are spawned and how many connection slots each one owns.
//
// PerWorker is floor(Requested/Workers); the remainder connections are never
// scheduled. The under-provisioning is intentional and kept: callers always
// get Workers*PerWorker attempts, never more.
type LoadPlan struct {
	Workers   int // effective worker count
	PerWorker int // connection slots per worker
	Requested int // connections asked for in the config
}

// Scheduled returns the number of connection attempts the plan will make.
func (p LoadPlan) Scheduled() int { return p.Workers * p.PerWorker }

// DerivePlan resolves the effective worker count as
// min(threads, parallelism, connections) and splits the connection count
// evenly across the workers, dropping the floor-division remainder.
func DerivePlan(threads, connections, parallelism int) LoadPlan {
	if threads < 1 {
		threads = 1
	}
	if parallelism < 1 {
		parallelism = 1
	}
	if connections < 1 {
		connections = 1
	}
	workers := threads
	if parallelism < workers {
		workers = parallelism
	}
	if connections < workers {
		workers = connections
	}
	return LoadPlan{
		Workers:   workers,
		PerWorker: connections / workers,
		Requested: connections,
	}
}
