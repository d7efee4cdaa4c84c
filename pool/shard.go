package pool

import (
	"sync"
	"time"

	"github.com/dythia102/creactivepool/api"
)

// shard is one lock-protected partition of a Pool's slots. Slots are
// searched lowest-index-first on Lease, which clusters busy slots toward
// the low end and makes Shrink's high-end scan for contiguous free slots
// cheap.
type shard struct {
	mu sync.Mutex

	id    uint16
	slots []*Handle

	busyCount   uint64
	leaseCount  uint64
	returnCount uint64
	peakBusy    uint64

	lockWaitAttempts uint64
	lockWaitNS       uint64
}

// newShard constructs size slots for shard id, firing Allocate then
// OnConstruct for each. On failure it releases whatever it already built
// and returns nil, false.
func newShard(id uint16, size int, alloc api.Allocator) (*shard, bool) {
	s := &shard{id: id, slots: make([]*Handle, 0, size)}
	for i := 0; i < size; i++ {
		h, ok := constructSlot(id, uint64(i), alloc)
		if !ok {
			s.destroyAllLocked(alloc)
			return nil, false
		}
		s.slots = append(s.slots, h)
	}
	return s, true
}

// constructSlot allocates and constructs a single slot's Handle, without
// touching any shard state — used by both newShard and grow.
func constructSlot(shardID uint16, slotIndex uint64, alloc api.Allocator) (*Handle, bool) {
	payload := alloc.Allocate(alloc.UserData)
	if payload == nil {
		return nil, false
	}
	h := &Handle{
		payload: payload,
		back:    backPointer{shardID: shardID, slotIndex: slotIndex},
	}
	alloc.OnConstruct(h.payload, alloc.UserData)
	return h, true
}

// lock acquires the shard's mutex, recording the wait as a contention
// sample: a lock-wait attempt count and cumulative lock-wait time,
// surfaced later through Pool.SnapshotStats.
func (s *shard) lock() {
	start := time.Now()
	s.mu.Lock()
	s.lockWaitAttempts++
	s.lockWaitNS += uint64(time.Since(start))
}

func (s *shard) unlock() {
	s.mu.Unlock()
}

// tryLease scans for the lowest-indexed free, valid slot and hands it
// out. Slots that fail Validate are skipped and reported, but the scan
// continues within this shard.
func (s *shard) tryLease(alloc api.Allocator, sink api.ErrorSink) (*Handle, bool) {
	s.lock()
	defer s.unlock()

	if s.busyCount >= uint64(len(s.slots)) {
		return nil, false
	}
	for _, h := range s.slots {
		if h.busy {
			continue
		}
		if !alloc.Validate(h.payload, alloc.UserData) {
			reportError(sink, api.ErrInvalidObject, "object failed validation during lease scan", h)
			continue
		}
		h.busy = true
		s.busyCount++
		s.leaseCount++
		if s.busyCount > s.peakBusy {
			s.peakBusy = s.busyCount
		}
		alloc.Reset(h.payload, alloc.UserData)
		alloc.OnReuse(h.payload, alloc.UserData)
		return h, true
	}
	return nil, false
}

// verifyAndFree checks that h is still a busy member of this shard and,
// if so, clears its busy bit and fires Reset. It mutates nothing on
// failure and reports nothing itself; the caller (Pool.Return) reports
// InvalidObject. Returns true on success.
//
// The caller must hold this shard's lock, and keeps holding it after a
// successful call to attempt a backpressure hand-off before releasing it.
func (s *shard) verifyAndFree(h *Handle, alloc api.Allocator) bool {
	if int(h.back.slotIndex) >= len(s.slots) || s.slots[h.back.slotIndex] != h || !h.busy {
		return false
	}
	if !alloc.Validate(h.payload, alloc.UserData) {
		return false
	}
	h.busy = false
	s.busyCount--
	s.returnCount++
	alloc.Reset(h.payload, alloc.UserData)
	return true
}

// handoff re-marks h busy for a parked requester, without touching
// Return's own counters. Called only while the shard lock from
// verifyAndFree's caller is still held.
func (s *shard) handoff(h *Handle, alloc api.Allocator) {
	h.busy = true
	s.busyCount++
	s.leaseCount++
	if s.busyCount > s.peakBusy {
		s.peakBusy = s.busyCount
	}
	alloc.OnReuse(h.payload, alloc.UserData)
}

// grow appends n new slots, in construction order, firing Allocate then
// OnConstruct for each. On a mid-loop failure it leaves the already-
// appended slots in place and returns how many were actually added plus
// false.
func (s *shard) grow(n int, alloc api.Allocator) (int, bool) {
	s.lock()
	defer s.unlock()

	start := len(s.slots)
	for i := 0; i < n; i++ {
		h, ok := constructSlot(s.id, uint64(start+i), alloc)
		if !ok {
			return i, false
		}
		s.slots = append(s.slots, h)
	}
	return n, true
}

// shrink removes n slots from the high end, requiring them all to be
// currently free. It fires OnDestruct then Release for each removed
// slot. Fails with no mutation if fewer than n contiguous free slots
// exist at the top.
func (s *shard) shrink(n int, alloc api.Allocator) bool {
	s.lock()
	defer s.unlock()

	if n > len(s.slots) {
		return false
	}
	for i := len(s.slots) - 1; i >= len(s.slots)-n; i-- {
		if s.slots[i].busy {
			return false
		}
	}
	for i := len(s.slots) - 1; i >= len(s.slots)-n; i-- {
		h := s.slots[i]
		alloc.OnDestruct(h.payload, alloc.UserData)
		alloc.Release(h.payload, alloc.UserData)
	}
	s.slots = s.slots[:len(s.slots)-n]
	if s.peakBusy > uint64(len(s.slots)) {
		s.peakBusy = uint64(len(s.slots))
	}
	return true
}

// destroyAllLocked releases every constructed slot. Used both by
// newShard's failure cleanup (no lock needed, s is not yet published)
// and by Pool.Destroy (caller holds s.mu).
func (s *shard) destroyAllLocked(alloc api.Allocator) {
	for _, h := range s.slots {
		alloc.OnDestruct(h.payload, alloc.UserData)
		alloc.Release(h.payload, alloc.UserData)
	}
	s.slots = nil
}

// snapshot copies this shard's lifetime counters into a running total,
// briefly holding the shard lock.
func (s *shard) snapshot(acc *api.Stats) {
	s.lock()
	acc.Leases += s.leaseCount
	acc.Returns += s.returnCount
	acc.ContentionAttempts += s.lockWaitAttempts
	acc.ContentionWaitNS += s.lockWaitNS
	s.unlock()
}

func reportError(sink api.ErrorSink, kind api.ErrorKind, message string, context any) {
	if sink != nil {
		sink(kind, message, context)
	}
}
