// Package api

package api

// ParkedCallback is invoked exactly once for a parked Lease request that
// later receives an object, with the payload it was handed and the
// caller-supplied context it parked with. Not invoked if the pool is
// destroyed before an object becomes available.
//
// The callback runs synchronously, on the goroutine performing the
// matching Return, while that Return's shard lock is held. Implementations
// must be short, must not block, and must not call back into the pool
// that invoked them.
type ParkedCallback func(payload []byte, context any)
