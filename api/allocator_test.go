package api_test

import (
	"testing"

	"github.com/dythia102/creactivepool/api"
)

func TestAllocator_WithDefaults_FillsOptionalHooks(t *testing.T) {
	a := api.Allocator{
		Allocate: func(any) []byte { return make([]byte, 4) },
		Release:  func([]byte, any) {},
	}
	d := a.WithDefaults()

	if d.Reset == nil || d.Validate == nil || d.OnConstruct == nil || d.OnDestruct == nil || d.OnReuse == nil {
		t.Fatalf("expected every optional hook to be filled in, got %+v", d)
	}

	if !d.Validate([]byte{1}, nil) {
		t.Errorf("default Validate should accept a non-nil payload")
	}
	if d.Validate(nil, nil) {
		t.Errorf("default Validate should reject a nil payload")
	}

	// Optional hooks should not panic when invoked.
	d.Reset([]byte{1}, nil)
	d.OnConstruct([]byte{1}, nil)
	d.OnDestruct([]byte{1}, nil)
	d.OnReuse([]byte{1}, nil)
}

func TestAllocator_WithDefaults_PreservesSuppliedHooks(t *testing.T) {
	called := false
	a := api.Allocator{
		Allocate: func(any) []byte { return make([]byte, 4) },
		Release:  func([]byte, any) {},
		Reset:    func([]byte, any) { called = true },
	}
	d := a.WithDefaults()
	d.Reset(nil, nil)
	if !called {
		t.Errorf("expected the caller-supplied Reset to be preserved, not overwritten")
	}
}

func TestErrorKind_String(t *testing.T) {
	cases := map[api.ErrorKind]string{
		api.ErrInvalidPool:      "InvalidPool",
		api.ErrInvalidObject:    "InvalidObject",
		api.ErrExhausted:        "Exhausted",
		api.ErrAllocFailed:      "AllocFailed",
		api.ErrInvalidSize:      "InvalidSize",
		api.ErrInsufficientFree: "InsufficientFree",
		api.ErrQueueFull:        "QueueFull",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
