package pool

import "testing"

func TestBackpressureQueue_FIFOOrder(t *testing.T) {
	q := newBackpressureQueue(4)

	order := []string{"r1", "r2", "r3"}
	for _, ctx := range order {
		if !q.tryPark(parkedRequest{context: ctx}) {
			t.Fatalf("tryPark(%s) failed", ctx)
		}
	}

	for _, want := range order {
		req, ok := q.popFront()
		if !ok {
			t.Fatalf("popFront failed while %d requests should remain", q.size())
		}
		if req.context != want {
			t.Errorf("popFront() context = %v, want %v", req.context, want)
		}
	}

	if _, ok := q.popFront(); ok {
		t.Errorf("popFront succeeded on an empty queue")
	}
}

func TestBackpressureQueue_CapacityAndGrowth(t *testing.T) {
	q := newBackpressureQueue(2)

	if !q.tryPark(parkedRequest{context: 1}) {
		t.Fatalf("first tryPark failed")
	}
	if !q.tryPark(parkedRequest{context: 2}) {
		t.Fatalf("second tryPark failed")
	}
	if q.tryPark(parkedRequest{context: 3}) {
		t.Fatalf("tryPark succeeded past capacity")
	}

	q.grow(2)
	if q.growCount.Load() != 1 {
		t.Errorf("growCount = %d, want 1", q.growCount.Load())
	}
	if q.capacity.Load() != 4 {
		t.Errorf("capacity = %d, want 4", q.capacity.Load())
	}
	if !q.tryPark(parkedRequest{context: 3}) {
		t.Errorf("tryPark failed after growth freed up room")
	}

	if q.maxSize.Load() != 3 {
		t.Errorf("maxSize = %d, want 3", q.maxSize.Load())
	}
}

func TestBackpressureQueue_Drain(t *testing.T) {
	q := newBackpressureQueue(4)
	q.tryPark(parkedRequest{context: 1})
	q.tryPark(parkedRequest{context: 2})

	drained := q.drain()
	if len(drained) != 2 {
		t.Fatalf("drain() returned %d requests, want 2", len(drained))
	}
	if q.size() != 0 {
		t.Errorf("queue size after drain = %d, want 0", q.size())
	}
}
