package connpool

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Align is the granularity of every block size and cursor in a pool: two
// machine words, as glibc's malloc does.
const Align = 2 * int(unsafe.Sizeof(uintptr(0)))

// roundUp rounds n up to a multiple of Align. ok is false for negative n or
// when rounding would overflow.
func roundUp(n int) (int, bool) {
	if n < 0 || n > math.MaxInt-(Align-1) {
		return 0, false
	}
	return (n + Align - 1) &^ (Align - 1), true
}

// Pool is a fixed-capacity buffer owned by one connection. Blocks are carved
// from the front (relocatable, resizable) and from the end (fixed for the
// pool's lifetime). There is no per-block free: space is reclaimed by Reset
// or by Destroy. Not goroutine-safe.
//
// The gap between the two cursors is always zero-filled.
type Pool struct {
	mem     []byte
	pos     int // first unused byte from the front
	end     int // one past the last unused byte from the end
	alloc   Allocator
	backing Backing
	log     logrus.FieldLogger
}

// New creates a pool of at least max bytes, rounded up to Align. Pools larger
// than the map threshold are backed by an anonymous virtual memory mapping
// when the platform provides one; smaller pools, and large pools whose mapping
// failed, live on the heap.
func New(max int, opts ...Option) (*Pool, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	size, ok := roundUp(max)
	if !ok {
		return nil, errors.Wrapf(ErrOverflow, "pool size %d", max)
	}

	p := &Pool{log: c.log}
	if c.large != nil && c.threshold >= 0 && size > c.threshold {
		mem, err := c.large.Acquire(size)
		if err == nil {
			p.mem, p.alloc = mem, c.large
		} else {
			stats.fallbacks.Add(1)
			c.log.WithError(err).WithField("size", size).Warn("connpool: mapping failed, falling back to heap")
		}
	}
	if p.alloc == nil {
		mem, err := c.heap.Acquire(size)
		if err != nil {
			stats.backingErr.Add(1)
			return nil, errors.Wrapf(withCause(ErrBacking, err), "%d bytes", size)
		}
		p.mem, p.alloc = mem, c.heap
	}
	assert(len(p.mem) == size, "allocator returned %d bytes, want %d", len(p.mem), size)

	p.backing = p.alloc.Backing()
	p.pos = 0
	p.end = size
	trackAcquire(p.backing, size)
	p.log.WithFields(logrus.Fields{"size": size, "backing": p.backing}).Debug("connpool: created")
	return p, nil
}

// Destroy releases the pool's buffer through the allocator that produced it.
// Destroy on a nil pool is a no-op. The pool and every block handed out by it
// must not be used afterwards.
func (p *Pool) Destroy() error {
	if p == nil {
		return nil
	}
	if p.alloc == nil {
		assert(false, "pool destroyed twice")
		return nil
	}
	p.checkCursors()

	size := len(p.mem)
	err := p.alloc.Release(p.mem)
	trackRelease(p.backing, size)
	p.mem, p.alloc = nil, nil
	p.pos, p.end = 0, 0

	if err != nil {
		stats.relErr.Add(1)
		p.log.WithError(err).WithFields(logrus.Fields{"size": size, "backing": p.backing}).Error("connpool: release failed")
		return errors.Wrap(err, "connpool: destroy")
	}
	p.log.WithFields(logrus.Fields{"size": size, "backing": p.backing}).Debug("connpool: destroyed")
	return nil
}

// Free returns the number of bytes between the front and end cursors.
func (p *Pool) Free() int {
	p.checkCursors()
	return p.end - p.pos
}

// Allocate returns a block of size bytes. Front blocks (fromEnd false) may
// later be resized with Reallocate; end blocks are fixed until Reset or
// Destroy and must never be passed to Reallocate.
//
// The block has len and cap equal to size and is zero-filled. On error the
// pool is unchanged. A zero-length block carries no address: its data
// pointer may be the start of the buffer whatever its position.
func (p *Pool) Allocate(size int, fromEnd bool) ([]byte, error) {
	p.checkCursors()
	asize, ok := roundUp(size)
	if !ok {
		return nil, refuse(ErrOverflow)
	}
	if asize > p.end-p.pos {
		return nil, refuse(ErrExhausted)
	}
	if fromEnd {
		p.end -= asize
		return p.mem[p.end : p.end+size : p.end+size], nil
	}
	off := p.pos
	p.pos += asize
	return p.mem[off : off+size : off+size], nil
}

// Reallocate resizes a front block to newSize bytes. When old is the most
// recent front block it is resized in place and the same memory is returned;
// bytes cut off by a shrink are zeroed. Otherwise a new front block is
// allocated, the contents are copied and old is zeroed. The space of old is
// not reclaimed until Reset.
//
// An empty old behaves like Allocate(newSize, false). Shrinking the most
// recent front block to zero moves the front cursor back to its offset, but
// the returned empty slice carries no address. On error old is left
// untouched and remains valid.
func (p *Pool) Reallocate(old []byte, newSize int) ([]byte, error) {
	p.checkCursors()
	if newSize < 0 || newSize > math.MaxInt-2*Align {
		return nil, refuse(ErrOverflow)
	}

	oldSize := len(old)
	if oldSize != 0 {
		off := p.offsetOf(old)
		if debugAssertions {
			assert(p.owns(old), "reallocating a block not owned by the pool")
			assert(off < p.pos, "reallocating a block allocated from the end")
		}
		if tip, _ := roundUp(off + oldSize); tip == p.pos {
			if newSize > p.end-off {
				return nil, refuse(ErrExhausted)
			}
			npos, _ := roundUp(off + newSize)
			if npos > p.end {
				return nil, refuse(ErrExhausted)
			}
			p.pos = npos
			if oldSize > newSize {
				clear(p.mem[off+newSize : off+oldSize])
			}
			return p.mem[off : off+newSize : off+newSize], nil
		}
	}

	asize, _ := roundUp(newSize)
	if asize > p.end-p.pos {
		return nil, refuse(ErrExhausted)
	}
	off := p.pos
	p.pos += asize
	blk := p.mem[off : off+newSize : off+newSize]
	if oldSize != 0 {
		copy(blk, old)
		clear(old)
	}
	return blk, nil
}

// Reset discards every block except keep. The contents of keep are moved to
// the start of the buffer, everything after them is zeroed, and the front
// cursor is placed after newSize bytes so the kept block can grow in place up
// to newSize. The returned block has length newSize and starts with the kept
// bytes.
//
// A nil keep empties the pool and returns nil. newSize must be at least
// len(keep) and at most Capacity.
func (p *Pool) Reset(keep []byte, newSize int) []byte {
	p.checkCursors()
	if debugAssertions && keep != nil {
		assert(p.owns(keep), "keeping a block not owned by the pool")
		assert(newSize >= len(keep), "new size %d smaller than kept %d bytes", newSize, len(keep))
		assert(newSize <= len(p.mem), "new size %d exceeds capacity %d", newSize, len(p.mem))
	}

	n := len(keep)
	if n != 0 && p.offsetOf(keep) != 0 {
		copy(p.mem, keep)
	}
	p.end = len(p.mem)
	if len(p.mem) > n {
		clear(p.mem[n:])
	}
	if keep == nil {
		p.pos = 0
		return nil
	}
	p.pos, _ = roundUp(newSize)
	return p.mem[:newSize:newSize]
}

// offsetOf returns the offset of b's first byte within the buffer.
func (p *Pool) offsetOf(b []byte) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
	return int(uintptr(unsafe.Pointer(unsafe.SliceData(b))) - base)
}

// owns reports whether b lies entirely within the buffer.
func (p *Pool) owns(b []byte) bool {
	if len(p.mem) == 0 {
		return len(b) == 0
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return ptr >= base && ptr-base+uintptr(len(b)) <= uintptr(len(p.mem))
}

func (p *Pool) checkCursors() {
	if debugAssertions {
		assert(p.alloc != nil, "use after Destroy")
		assert(0 <= p.pos && p.pos <= p.end && p.end <= len(p.mem), "cursors out of order: pos=%d end=%d size=%d", p.pos, p.end, len(p.mem))
		assert(p.pos%Align == 0 && p.end%Align == 0, "cursors not aligned: pos=%d end=%d", p.pos, p.end)
	}
}
