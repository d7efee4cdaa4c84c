// Package api

package api

// Stats is a point-in-time, eventually-consistent snapshot of a Pool's
// counters, aggregated across every shard plus the pool-global scalars.
// Shards are locked briefly, one at a time, to sum the lifetime
// counters; the global scalars are copied without locking the queue and
// are therefore not atomic with respect to concurrent mutators.
type Stats struct {
	// Leases is the lifetime count of successful Lease and hand-off
	// grants, summed across all shards.
	Leases uint64
	// Returns is the lifetime count of successful Return calls, summed
	// across all shards.
	Returns uint64
	// ContentionAttempts is the number of shard-lock acquisitions
	// observed across all shards.
	ContentionAttempts uint64
	// ContentionWaitNS is the cumulative time, in nanoseconds, spent
	// waiting to acquire a shard lock, summed across all shards.
	ContentionWaitNS uint64
	// PeakBusyGlobal is the maximum number of concurrently busy slots
	// ever observed across the whole pool.
	PeakBusyGlobal uint64
	// TotalAllocated is the lifetime count of slots constructed via
	// Create or a fully-successful Grow.
	TotalAllocated uint64
	// GrowCount is the number of fully-successful Grow operations.
	GrowCount uint64
	// ShrinkCount is the number of fully-successful Shrink operations.
	ShrinkCount uint64
	// QueueMax is the historical maximum size the backpressure queue
	// has reached.
	QueueMax uint64
	// QueueGrowCount is the number of times the backpressure queue's
	// capacity was expanded.
	QueueGrowCount uint64
}
