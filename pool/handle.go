package pool

// Numeric bounds for a shard id and slot index (16 high bits for shard
// id, 48 low bits for index, matching a packed 64-bit back-pointer).
// This module keeps the back-pointer as a typed struct rather than a
// packed word — see the grounding note in DESIGN.md — but enforces the
// same bounds so a payload pointer stays portable to a packed
// representation if one is ever added.
const (
	maxShardCount = 1<<16 - 1
	maxSlotIndex  = 1<<48 - 1
)

// backPointer identifies the shard and slot a Handle belongs to. It is
// assigned once, at construction, and never changes for the lifetime of
// the record: it survives Grow, and does not survive Shrink (the record
// carrying it is destroyed instead).
type backPointer struct {
	shardID   uint16
	slotIndex uint64
}

// Handle is the object record: the payload a caller leases, plus the
// back-pointer and busy bit that make Return an O(1) operation. Callers
// hold a Handle opaquely between Lease and Return and read its bytes via
// Payload.
//
// Handle's fields other than the payload are read and written only under
// the owning shard's mutex; Payload itself is owned by whichever party
// currently holds the lease.
type Handle struct {
	payload []byte
	back    backPointer
	busy    bool
}

// Payload returns the leased bytes. Concurrent mutation of a Payload by
// anyone other than its current lease holder is a caller bug: the pool
// itself never reads or writes payload contents outside of the
// allocator's lifecycle hooks.
func (h *Handle) Payload() []byte {
	return h.payload
}
