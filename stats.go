package connpool

import "sync/atomic"

// Stats is a snapshot of process-wide pool counters.
type Stats struct {
	PoolsLive      int64 // Pools created and not yet destroyed
	HeapPools      int64 // Pools ever created on the heap
	MappedPools    int64 // Pools ever created on a mapping
	HeapBytes      int64 // Bytes currently held by live heap pools
	MappedBytes    int64 // Bytes currently held by live mapped pools
	MapFallbacks   int64 // Large pools that fell back to the heap
	BackingErrors  int64 // New calls that could not acquire any buffer
	ReleaseErrors  int64 // Destroy calls whose release failed
	ExhaustedCalls int64 // Allocate/Reallocate calls refused for space
	OverflowCalls  int64 // Allocate/Reallocate calls refused for size
}

var stats struct {
	live        atomic.Int64
	heapPools   atomic.Int64
	mappedPools atomic.Int64
	heapBytes   atomic.Int64
	mappedBytes atomic.Int64
	fallbacks   atomic.Int64
	backingErr  atomic.Int64
	relErr      atomic.Int64
	exhausted   atomic.Int64
	overflow    atomic.Int64
}

// ReadStats returns the current process-wide counters.
func ReadStats() Stats {
	return Stats{
		PoolsLive:      stats.live.Load(),
		HeapPools:      stats.heapPools.Load(),
		MappedPools:    stats.mappedPools.Load(),
		HeapBytes:      stats.heapBytes.Load(),
		MappedBytes:    stats.mappedBytes.Load(),
		MapFallbacks:   stats.fallbacks.Load(),
		BackingErrors:  stats.backingErr.Load(),
		ReleaseErrors:  stats.relErr.Load(),
		ExhaustedCalls: stats.exhausted.Load(),
		OverflowCalls:  stats.overflow.Load(),
	}
}

func trackAcquire(b Backing, n int) {
	stats.live.Add(1)
	if b == BackingMapped {
		stats.mappedPools.Add(1)
		stats.mappedBytes.Add(int64(n))
		return
	}
	stats.heapPools.Add(1)
	stats.heapBytes.Add(int64(n))
}

func trackRelease(b Backing, n int) {
	stats.live.Add(-1)
	if b == BackingMapped {
		stats.mappedBytes.Add(-int64(n))
		return
	}
	stats.heapBytes.Add(-int64(n))
}

// refuse counts err and returns it.
func refuse(err error) error {
	switch err {
	case ErrExhausted:
		stats.exhausted.Add(1)
	case ErrOverflow:
		stats.overflow.Add(1)
	}
	return err
}
