// Package api
//
// Error kinds and the error-reporting sink for the object pool. Errors are
// reported, not thrown: every fallible pool operation returns a plain
// bool/nil result and invokes the configured ErrorSink exactly once before
// returning.

package api

import "fmt"

// ErrorKind enumerates the failure conditions a pool operation can report.
type ErrorKind int

const (
	// ErrInvalidPool indicates the operation was invoked on an
	// already-destroyed pool. A nil *Pool is not detected.
	ErrInvalidPool ErrorKind = iota
	// ErrInvalidObject indicates a Return of a pointer that did not
	// originate from this pool, is already free, or fails validation.
	ErrInvalidObject
	// ErrExhausted indicates a Lease found no free slot and no parked
	// callback was supplied.
	ErrExhausted
	// ErrAllocFailed indicates a Create or Grow could not construct a
	// new slot.
	ErrAllocFailed
	// ErrInvalidSize indicates a size argument violated a documented
	// constraint (zero, negative, or out of the packed back-pointer's
	// numeric range), or that the Allocator passed to New lacks Allocate
	// or Release.
	ErrInvalidSize
	// ErrInsufficientFree indicates a Shrink could not find enough
	// contiguous free slots at the high end of a shard.
	ErrInsufficientFree
	// ErrQueueFull indicates a Lease with a callback could not park
	// because the backpressure queue was full and could not expand.
	ErrQueueFull
)

// String renders the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidPool:
		return "InvalidPool"
	case ErrInvalidObject:
		return "InvalidObject"
	case ErrExhausted:
		return "Exhausted"
	case ErrAllocFailed:
		return "AllocFailed"
	case ErrInvalidSize:
		return "InvalidSize"
	case ErrInsufficientFree:
		return "InsufficientFree"
	case ErrQueueFull:
		return "QueueFull"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrorSink receives a report for every failed operation. context carries
// whatever opaque value the failing call supplied (a caller context for
// Lease, the offending pointer for Return, and so on); it may be nil.
//
// A sink must not re-enter the pool that invoked it and must return
// promptly. It always runs synchronously on the failing call's goroutine,
// and for a failed Validate seen mid-scan during Lease it runs while the
// owning shard's lock is still held.
type ErrorSink func(kind ErrorKind, message string, context any)
