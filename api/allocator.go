// Package api
//
// Allocator is the caller-supplied lifecycle bundle for pooled objects:
// construction, reset-on-reuse, validation, and teardown. The pool never
// interprets payload bytes itself — it only carries them between hooks.

package api

// Allocator bundles the object-lifecycle hooks a Pool needs. Allocate and
// Release are required; every other hook defaults to the no-op (or
// non-nil-check, for Validate) documented on its field.
type Allocator struct {
	// Allocate constructs one payload. Returning nil signals AllocFailed.
	// Called once per slot, during pool creation or Grow.
	Allocate func(userData any) []byte

	// Release tears down one payload's resources. Called once per slot,
	// during Shrink or pool Destroy.
	Release func(payload []byte, userData any)

	// Reset restores a payload to its default state. Called on Lease
	// before hand-out and on Return. Defaults to a no-op.
	Reset func(payload []byte, userData any)

	// Validate reports whether a payload is still usable. Called on
	// Lease, on Return, and on backpressure hand-off. Defaults to a
	// non-nil check.
	Validate func(payload []byte, userData any) bool

	// OnConstruct fires once per slot, immediately after Allocate.
	// Defaults to a no-op.
	OnConstruct func(payload []byte, userData any)

	// OnDestruct fires once per slot, immediately before Release.
	// Defaults to a no-op.
	OnDestruct func(payload []byte, userData any)

	// OnReuse fires on every successful Lease, immediately after Reset.
	// Defaults to a no-op.
	OnReuse func(payload []byte, userData any)

	// UserData is passed verbatim to every hook above.
	UserData any
}

// WithDefaults returns a copy of a with every optional hook filled in.
// Allocate and Release are left as-is; a nil Allocate or Release is a
// caller error the constructor rejects separately.
func (a Allocator) WithDefaults() Allocator {
	if a.Reset == nil {
		a.Reset = func([]byte, any) {}
	}
	if a.Validate == nil {
		a.Validate = func(payload []byte, _ any) bool { return payload != nil }
	}
	if a.OnConstruct == nil {
		a.OnConstruct = func([]byte, any) {}
	}
	if a.OnDestruct == nil {
		a.OnDestruct = func([]byte, any) {}
	}
	if a.OnReuse == nil {
		a.OnReuse = func([]byte, any) {}
	}
	return a
}
