// Package api declares the external interfaces of the object pool: the
// allocator lifecycle hooks, the error kinds and sink, the parked-lease
// callback, and the stats snapshot. It holds no logic of its own — see
// package pool for the implementation these types configure.
package api
