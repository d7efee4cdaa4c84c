// Package pool implements a sharded, backpressure-aware object pool.
//
// A Pool partitions its objects across a fixed number of shards, each
// guarded by its own mutex, so that lease/return traffic from independent
// goroutines rarely contends on the same lock. When every shard is
// exhausted, callers may park a callback in a bounded FIFO queue instead
// of failing outright; the next Return hands the freed object straight to
// the oldest parked request while still holding the shard lock.
//
// See pool.go for the public Pool type, shard.go for the per-shard slot
// search, queue.go for the backpressure queue, and handle.go for the
// object record returned by Lease.
package pool
