package pool

import "github.com/dythia102/creactivepool/api"

// DefaultAllocator returns an Allocator that hands out plain []byte
// payloads of the given size, freeing them to the garbage collector on
// Release. Unlike the C original this pool descends from, it stores
// nothing in UserData: the allocator boundary defined by api.Allocator
// is the only channel between the pool and its objects (see DESIGN.md's
// Open Question 3).
func DefaultAllocator(size int) api.Allocator {
	return api.Allocator{
		Allocate: func(any) []byte {
			return make([]byte, size)
		},
		Release: func([]byte, any) {
			// The Go garbage collector reclaims the backing array once
			// the last reference (this Handle's payload field) is gone.
		},
	}
}
