package pool

import (
	"sync"
	"sync/atomic"
	"time"
)

// A 64-bit linear congruential generator with Knuth's well-known
// multiplier and an odd increment, taking the top 32 bits of state as
// output.
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// rngState is one goroutine-local PRNG instance. Go exposes no per-thread
// storage, so shardRNGs (below) approximates a thread-local PRNG with a
// sync.Pool: in practice each P keeps its own free list, so concurrent
// goroutines running on distinct Ps rarely contend for the same
// rngState.
type rngState struct {
	state uint64
}

func (r *rngState) next() uint32 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return uint32(r.state >> 32)
}

// rngSeedMix is folded into the clock at each new rngState's creation, in
// place of a thread identifier, so that two PRNGs created in the same
// nanosecond still start from different states.
var rngSeedMix atomic.Uint64

var shardRNGs = sync.Pool{
	New: func() any {
		mix := rngSeedMix.Add(0x9E3779B97F4A7C15)
		seed := uint64(time.Now().UnixNano()) ^ mix
		return &rngState{state: seed}
	},
}

// pickEntryShard returns a starting shard index in [0, shardCount),
// borrowing a pooled PRNG for the duration of the call. Randomising the
// entry point dilutes contention on shard 0.
func pickEntryShard(shardCount int) int {
	r := shardRNGs.Get().(*rngState)
	v := r.next()
	shardRNGs.Put(r)
	return int(v % uint32(shardCount))
}
