//go:build !unix && !windows

package connpool

// No anonymous mapping here; every pool lives on the heap.
func mappedAllocator() Allocator { return nil }
