package pool

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/dythia102/creactivepool/api"
)

// parkedRequest is one entry in the backpressure queue: a callback and
// the opaque context it was parked with.
type parkedRequest struct {
	callback api.ParkedCallback
	context  any
}

// backpressureQueue is the bounded FIFO of parked Lease requests. It owns
// a mutex distinct from any shard's: the only path that ever holds both
// is Return's hand-off, which always takes the shard lock first.
//
// The underlying storage is github.com/eapache/queue, an amortised-
// growth ring buffer; this type layers an explicit capacity ceiling,
// high-water mark, and growth-event counter on top of it, since the bare
// queue tracks none of those. capacity, maxSize, and growCount are
// atomics so SnapshotStats can read them without taking the queue mutex.
type backpressureQueue struct {
	mu        sync.Mutex
	q         *queue.Queue
	capacity  atomic.Uint64
	maxSize   atomic.Uint64
	growCount atomic.Uint64
}

func newBackpressureQueue(capacity int) *backpressureQueue {
	q := &backpressureQueue{q: queue.New()}
	q.capacity.Store(uint64(capacity))
	return q
}

// tryPark appends req if the queue has room, returning true on success.
func (q *backpressureQueue) tryPark(req parkedRequest) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if uint64(q.q.Length()) >= q.capacity.Load() {
		return false
	}
	q.q.Add(req)
	if n := uint64(q.q.Length()); n > q.maxSize.Load() {
		q.maxSize.Store(n)
	}
	return true
}

// grow raises the capacity ceiling by delta and records a growth event.
func (q *backpressureQueue) grow(delta int) {
	q.capacity.Add(uint64(delta))
	q.growCount.Add(1)
}

// peekFront returns the oldest parked request without removing it.
func (q *backpressureQueue) peekFront() (parkedRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.q.Length() == 0 {
		return parkedRequest{}, false
	}
	return q.q.Peek().(parkedRequest), true
}

// popFront removes and returns the oldest parked request.
func (q *backpressureQueue) popFront() (parkedRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.q.Length() == 0 {
		return parkedRequest{}, false
	}
	return q.q.Remove().(parkedRequest), true
}

// drain removes and returns every parked request, in FIFO order, without
// invoking any of them. Used by Pool.Destroy: remaining parked entries
// are dropped, not serviced.
func (q *backpressureQueue) drain() []parkedRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]parkedRequest, 0, q.q.Length())
	for q.q.Length() > 0 {
		out = append(out, q.q.Remove().(parkedRequest))
	}
	return out
}

func (q *backpressureQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.q.Length()
}

// snapshot copies the queue's globals without taking q.mu: these fields
// are atomics precisely so a stats read never contends with Lease/Return
// traffic on the queue mutex.
func (q *backpressureQueue) snapshot(acc *api.Stats) {
	acc.QueueMax = q.maxSize.Load()
	acc.QueueGrowCount = q.growCount.Load()
}
