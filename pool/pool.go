package pool

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/dythia102/creactivepool/api"
)

// Factory defaults for a small pool sized for interactive workloads.
const (
	DefaultPoolSize      = 16
	DefaultShardCount    = 4
	DefaultPayloadSize   = 64
	DefaultQueueCapacity = 32
)

// LeaseOutcome disambiguates the three ways a Lease call can end: an
// object handed out immediately, a callback parked for later hand-off,
// or an outright failure already reported to the error sink.
type LeaseOutcome int

const (
	Leased LeaseOutcome = iota
	Parked
	Failed
)

// Config configures a new Pool. Allocator.Allocate and Allocator.Release
// are required; every other field has a documented default.
type Config struct {
	// PoolSize is the total number of objects across all shards. Must
	// be >= 1.
	PoolSize int
	// ShardCount is the number of independent lock-protected
	// partitions. Must be in [1, 65535].
	ShardCount int
	// Allocator supplies the object lifecycle. Allocate and Release are
	// required; the rest default per api.Allocator.WithDefaults.
	Allocator api.Allocator
	// ErrorSink receives one report per failed operation. If nil,
	// failures are logged via the standard library's log package.
	ErrorSink api.ErrorSink
	// QueueCapacity is the backpressure queue's initial capacity. If
	// zero, DefaultQueueCapacity is used.
	QueueCapacity int
}

// DefaultConfig returns the factory defaults for a pool of
// payloadSize-byte objects: total size 16, shard count 4, queue
// capacity 32.
func DefaultConfig(payloadSize int) Config {
	return Config{
		PoolSize:      DefaultPoolSize,
		ShardCount:    DefaultShardCount,
		Allocator:     DefaultAllocator(payloadSize),
		QueueCapacity: DefaultQueueCapacity,
	}
}

// Pool is a sharded, backpressure-aware object pool. See package doc.go
// for the overall design.
type Pool struct {
	shards    []*shard
	queue     *backpressureQueue
	allocator api.Allocator
	errSink   api.ErrorSink

	globalBusy     atomic.Int64
	peakBusyGlobal atomic.Uint64
	totalAllocated atomic.Uint64
	growCount      atomic.Uint64
	shrinkCount    atomic.Uint64

	destroyed atomic.Bool
	destroyMu sync.Mutex
}

func defaultErrorSink(kind api.ErrorKind, message string, context any) {
	log.Printf("pool: %s: %s (context=%v)", kind, message, context)
}

// New validates cfg and constructs a fully populated Pool.
func New(cfg Config) (*Pool, error) {
	sink := cfg.ErrorSink
	if sink == nil {
		sink = defaultErrorSink
	}

	if cfg.PoolSize < 1 {
		reportError(sink, api.ErrInvalidSize, "pool size must be >= 1", cfg.PoolSize)
		return nil, errors.New("pool: invalid pool size")
	}
	if cfg.ShardCount < 1 || cfg.ShardCount > maxShardCount {
		reportError(sink, api.ErrInvalidSize, "shard count must be in [1, 65535]", cfg.ShardCount)
		return nil, errors.New("pool: invalid shard count")
	}
	if cfg.Allocator.Allocate == nil || cfg.Allocator.Release == nil {
		reportError(sink, api.ErrInvalidSize, "allocator must supply Allocate and Release", nil)
		return nil, errors.New("pool: incomplete allocator")
	}
	if cfg.PoolSize/cfg.ShardCount > maxSlotIndex {
		reportError(sink, api.ErrInvalidSize, "per-shard slot count exceeds back-pointer range", cfg.PoolSize)
		return nil, errors.New("pool: per-shard slot count too large")
	}

	queueCapacity := cfg.QueueCapacity
	if queueCapacity == 0 {
		queueCapacity = DefaultQueueCapacity
	}

	alloc := cfg.Allocator.WithDefaults()
	base := cfg.PoolSize / cfg.ShardCount
	rem := cfg.PoolSize % cfg.ShardCount

	shards := make([]*shard, 0, cfg.ShardCount)
	built := 0
	for i := 0; i < cfg.ShardCount; i++ {
		size := base
		if i < rem {
			size++
		}
		s, ok := newShard(uint16(i), size, alloc)
		if !ok {
			for _, done := range shards {
				done.destroyAllLocked(alloc)
			}
			reportError(sink, api.ErrAllocFailed, "failed to construct shard during pool creation", i)
			return nil, errors.New("pool: allocation failed during creation")
		}
		shards = append(shards, s)
		built += size
	}

	p := &Pool{
		shards:    shards,
		queue:     newBackpressureQueue(queueCapacity),
		allocator: alloc,
		errSink:   sink,
	}
	p.totalAllocated.Store(uint64(built))
	return p, nil
}

// NewDefault builds a Pool using the package's factory defaults, sized
// for payloadSize-byte objects.
func NewDefault(payloadSize int) (*Pool, error) {
	return New(DefaultConfig(payloadSize))
}

func (p *Pool) isDestroyed() bool {
	return p.destroyed.Load()
}

func (p *Pool) reportError(kind api.ErrorKind, message string, context any) {
	reportError(p.errSink, kind, message, context)
}

func (p *Pool) bumpBusy(delta int64) {
	v := p.globalBusy.Add(delta)
	if v < 0 {
		v = 0
	}
	for {
		cur := p.peakBusyGlobal.Load()
		if uint64(v) <= cur {
			return
		}
		if p.peakBusyGlobal.CompareAndSwap(cur, uint64(v)) {
			return
		}
	}
}

// Lease acquires an object. If every shard is exhausted and cb is
// non-nil, the request parks in the backpressure queue instead of
// failing; cb fires exactly once, from a future Return, when an object
// becomes available. If cb is nil, exhaustion is reported immediately as
// Exhausted.
func (p *Pool) Lease(cb api.ParkedCallback, ctx any) (*Handle, LeaseOutcome) {
	if p.isDestroyed() {
		p.reportError(api.ErrInvalidPool, "lease on destroyed pool", ctx)
		return nil, Failed
	}

	n := len(p.shards)
	start := pickEntryShard(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if h, ok := p.shards[idx].tryLease(p.allocator, p.errSink); ok {
			p.bumpBusy(1)
			return h, Leased
		}
	}

	if cb == nil {
		p.reportError(api.ErrExhausted, "pool exhausted and no parked callback supplied", ctx)
		return nil, Failed
	}

	req := parkedRequest{callback: cb, context: ctx}
	if p.queue.tryPark(req) {
		return nil, Parked
	}

	delta := int(p.queue.capacity.Load())
	if delta < 1 {
		delta = 1
	}
	p.queue.grow(delta)
	if p.queue.tryPark(req) {
		return nil, Parked
	}

	p.reportError(api.ErrQueueFull, "backpressure queue full and could not expand", ctx)
	return nil, Failed
}

// Return gives a leased object back to its shard. If a request is
// parked, it is handed the same object immediately, synchronously,
// before Return returns, and Return's own result is unaffected.
func (p *Pool) Return(h *Handle) bool {
	if p.isDestroyed() {
		p.reportError(api.ErrInvalidPool, "return on destroyed pool", h)
		return false
	}
	if h == nil || int(h.back.shardID) >= len(p.shards) {
		p.reportError(api.ErrInvalidObject, "return of a pointer not owned by this pool", h)
		return false
	}

	s := p.shards[h.back.shardID]
	s.lock()
	if !s.verifyAndFree(h, p.allocator) {
		s.unlock()
		p.reportError(api.ErrInvalidObject, "return of a stale, unowned, or already-free object", h)
		return false
	}
	p.bumpBusy(-1)

	if p.allocator.Validate(h.payload, p.allocator.UserData) {
		if req, ok := p.queue.popFront(); ok {
			s.handoff(h, p.allocator)
			p.bumpBusy(1)
			req.callback(h.payload, req.context)
			s.unlock()
			return true
		}
	}
	s.unlock()
	return true
}

// Grow adds n objects, balanced across shards. A mid-loop allocation
// failure leaves already-grown shards at their new size and reports
// AllocFailed; pool-level counters advance only on full success (see
// DESIGN.md's Open Question decisions).
func (p *Pool) Grow(n int) bool {
	if p.isDestroyed() {
		p.reportError(api.ErrInvalidPool, "grow on destroyed pool", n)
		return false
	}
	if n < 1 {
		p.reportError(api.ErrInvalidSize, "grow size must be >= 1", n)
		return false
	}

	shardCount := len(p.shards)
	base := n / shardCount
	rem := n % shardCount

	grown := 0
	for i, s := range p.shards {
		add := base
		if i < rem {
			add++
		}
		if add == 0 {
			continue
		}
		got, ok := s.grow(add, p.allocator)
		grown += got
		if !ok {
			p.reportError(api.ErrAllocFailed, "failed to allocate new slot during grow", i)
			return false
		}
	}

	p.totalAllocated.Add(uint64(grown))
	p.growCount.Add(1)
	return true
}

// Shrink removes n objects, balanced across shards the same way Grow
// distributes them. It stops at the first shard lacking enough
// contiguous free slots at its high end; shards processed before that
// point stay shrunk, just as a failed Grow leaves the shards it already
// grown at their new size. Only a fully successful Shrink advances the
// shrink counter.
func (p *Pool) Shrink(n int) bool {
	if p.isDestroyed() {
		p.reportError(api.ErrInvalidPool, "shrink on destroyed pool", n)
		return false
	}
	if n < 1 || uint64(n) > p.Capacity() {
		p.reportError(api.ErrInvalidSize, "shrink size must be in [1, capacity]", n)
		return false
	}

	shardCount := len(p.shards)
	base := n / shardCount
	rem := n % shardCount

	for i, s := range p.shards {
		reduce := base
		if i < rem {
			reduce++
		}
		if reduce == 0 {
			continue
		}
		if !s.shrink(reduce, p.allocator) {
			p.reportError(api.ErrInsufficientFree, "not enough contiguous free slots to shrink", i)
			return false
		}
	}

	p.shrinkCount.Add(1)
	return true
}

// GrowQueue raises the backpressure queue's capacity ceiling by delta.
func (p *Pool) GrowQueue(delta int) bool {
	if p.isDestroyed() {
		p.reportError(api.ErrInvalidPool, "grow-queue on destroyed pool", delta)
		return false
	}
	if delta < 1 {
		p.reportError(api.ErrInvalidSize, "queue growth delta must be >= 1", delta)
		return false
	}
	p.queue.grow(delta)
	return true
}

// UsedCount returns the current sum of busy counts across all shards.
func (p *Pool) UsedCount() uint64 {
	var used uint64
	for _, s := range p.shards {
		s.lock()
		used += s.busyCount
		s.unlock()
	}
	return used
}

// Capacity returns the current sum of shard sizes.
func (p *Pool) Capacity() uint64 {
	var total uint64
	for _, s := range p.shards {
		s.lock()
		total += uint64(len(s.slots))
		s.unlock()
	}
	return total
}

// SnapshotStats fills out with a point-in-time, eventually-consistent
// view of the pool's counters.
func (p *Pool) SnapshotStats(out *api.Stats) {
	*out = api.Stats{}
	for _, s := range p.shards {
		s.snapshot(out)
	}
	out.PeakBusyGlobal = p.peakBusyGlobal.Load()
	out.TotalAllocated = p.totalAllocated.Load()
	out.GrowCount = p.growCount.Load()
	out.ShrinkCount = p.shrinkCount.Load()
	p.queue.snapshot(out)
}

// PerShardLeaseCounts returns the lifetime lease count of each shard, in
// shard-index order.
func (p *Pool) PerShardLeaseCounts() ([]uint64, error) {
	counts := make([]uint64, len(p.shards))
	for i, s := range p.shards {
		s.lock()
		counts[i] = s.leaseCount
		s.unlock()
	}
	return counts, nil
}

// Destroy tears down every slot and drops any still-parked requests
// without invoking them. Calling Destroy again does nothing. After
// Destroy, Lease, Return, Grow, Shrink and GrowQueue report InvalidPool
// and no-op.
func (p *Pool) Destroy() {
	p.destroyMu.Lock()
	defer p.destroyMu.Unlock()
	if p.destroyed.Swap(true) {
		return
	}
	for _, s := range p.shards {
		s.lock()
		s.destroyAllLocked(p.allocator)
		s.unlock()
	}
	p.queue.drain()
}
