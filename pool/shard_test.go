package pool

import "testing"

func TestShard_BusyAccounting(t *testing.T) {
	alloc := DefaultAllocator(8).WithDefaults()
	s, ok := newShard(0, 4, alloc)
	if !ok {
		t.Fatalf("newShard failed")
	}

	countBusy := func() int {
		n := 0
		for _, h := range s.slots {
			if h.busy {
				n++
			}
		}
		return n
	}

	leased := make([]*Handle, 0, 4)
	for i := 0; i < 4; i++ {
		h, ok := s.tryLease(alloc, nil)
		if !ok {
			t.Fatalf("tryLease %d failed", i)
		}
		leased = append(leased, h)
		if int(s.busyCount) != countBusy() {
			t.Fatalf("busyCount=%d, actual busy slots=%d", s.busyCount, countBusy())
		}
	}

	if _, ok := s.tryLease(alloc, nil); ok {
		t.Fatalf("tryLease succeeded on a fully busy shard")
	}

	for _, h := range leased {
		if !s.verifyAndFree(h, alloc) {
			t.Fatalf("verifyAndFree failed for a valid busy handle")
		}
		if int(s.busyCount) != countBusy() {
			t.Fatalf("busyCount=%d, actual busy slots=%d", s.busyCount, countBusy())
		}
	}
}

func TestShard_TryLeasePicksLowestFreeIndex(t *testing.T) {
	alloc := DefaultAllocator(8).WithDefaults()
	s, ok := newShard(0, 4, alloc)
	if !ok {
		t.Fatalf("newShard failed")
	}

	h0, _ := s.tryLease(alloc, nil)
	if h0.back.slotIndex != 0 {
		t.Fatalf("first lease returned slot %d, want 0", h0.back.slotIndex)
	}

	s.verifyAndFree(h0, alloc)

	h1, _ := s.tryLease(alloc, nil)
	if h1.back.slotIndex != 0 {
		t.Fatalf("lease after freeing slot 0 returned slot %d, want 0", h1.back.slotIndex)
	}
}

func TestShard_VerifyAndFreeRejectsStalePointer(t *testing.T) {
	alloc := DefaultAllocator(8).WithDefaults()
	s, ok := newShard(0, 2, alloc)
	if !ok {
		t.Fatalf("newShard failed")
	}

	foreign := &Handle{back: backPointer{shardID: 0, slotIndex: 0}}
	if s.verifyAndFree(foreign, alloc) {
		t.Errorf("verifyAndFree accepted a pointer this shard never issued")
	}

	h, _ := s.tryLease(alloc, nil)
	if !s.verifyAndFree(h, alloc) {
		t.Fatalf("verifyAndFree rejected a genuinely busy handle")
	}
	if s.verifyAndFree(h, alloc) {
		t.Errorf("verifyAndFree accepted a double return")
	}
}

func TestShard_ShrinkClampsPeak(t *testing.T) {
	alloc := DefaultAllocator(8).WithDefaults()
	s, ok := newShard(0, 4, alloc)
	if !ok {
		t.Fatalf("newShard failed")
	}

	for i := 0; i < 4; i++ {
		if _, ok := s.tryLease(alloc, nil); !ok {
			t.Fatalf("tryLease %d failed", i)
		}
	}
	if s.peakBusy != 4 {
		t.Fatalf("peakBusy = %d, want 4", s.peakBusy)
	}

	for _, h := range s.slots {
		s.verifyAndFree(h, alloc)
	}
	if !s.shrink(3, alloc) {
		t.Fatalf("shrink(3) failed on a fully free shard")
	}
	if s.peakBusy != 1 {
		t.Fatalf("peakBusy after shrinking to size 1 = %d, want 1 (clamped)", s.peakBusy)
	}
}
