package connpool

import (
	"fmt"

	"github.com/pkg/errors"
)

// Backing records which mechanism owns a pool's buffer.
type Backing uint8

const (
	// BackingHeap is a buffer allocated on the Go heap.
	BackingHeap Backing = iota
	// BackingMapped is an anonymous virtual memory mapping.
	BackingMapped
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMapped:
		return "mapped"
	default:
		return fmt.Sprintf("backing(%d)", uint8(b))
	}
}

// Allocator acquires and releases the buffer behind a Pool. A buffer must
// be released by the same Allocator that acquired it.
type Allocator interface {
	// Acquire returns a zero-filled buffer of exactly size bytes.
	Acquire(size int) ([]byte, error)
	// Release gives buf back. buf must be the slice returned by Acquire.
	Release(buf []byte) error
	// Backing reports the kind of memory this allocator hands out.
	Backing() Backing
}

// HeapAllocator returns the allocator used for small pools and as the
// fallback when mapping fails.
func HeapAllocator() Allocator { return heapAllocator{} }

// MappedAllocator returns the platform's virtual memory allocator, or nil
// when the platform has none.
func MappedAllocator() Allocator { return mappedAllocator() }

type heapAllocator struct{}

func (heapAllocator) Acquire(size int) (buf []byte, err error) {
	// makeslice panics rather than failing for impossible lengths.
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, errors.Errorf("heap: %v", r)
		}
	}()
	return make([]byte, size), nil
}

// Release zeroes buf so nothing it held outlives the pool in collectable
// memory.
func (heapAllocator) Release(buf []byte) error {
	clear(buf)
	return nil
}

func (heapAllocator) Backing() Backing { return BackingHeap }
