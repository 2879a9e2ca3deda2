// Package connpool implements the per-connection memory pool of an
// embeddable HTTP server.
//
// # Overview
//
// A Pool is a fixed-capacity buffer obtained once when a connection is
// accepted and released once when it closes. Every transient allocation the
// connection needs (read buffers, parsed header values, decoded credentials,
// per-connection metadata) is carved out of it without calling the general
// purpose allocator:
//
//   - Front blocks are taken from the low end. They are temporary and may be
//     resized; resizing the most recent front block happens in place.
//   - End blocks are taken from the high end. They never move and are meant
//     for values that live as long as the connection.
//
// The two cursors converge toward each other; when they meet the pool is
// exhausted and the caller answers with a resource-limit error.
//
// # Basic Usage
//
//	p, err := connpool.New(64 * 1024)
//	if err != nil {
//		return err
//	}
//	defer p.Destroy()
//
//	meta, _ := p.Allocate(64, true)   // fixed for the connection
//	buf, _ := p.Allocate(1024, false) // read buffer
//	buf, _ = p.Reallocate(buf, 4096)  // grows in place
//
//	// Request done; keep the pipelined bytes that were already read.
//	buf = p.Reset(buf[:n], 4096)
//
// # Backing Memory
//
// Pools above DefaultMapThreshold (32 KiB) are backed by an anonymous
// virtual memory mapping (mmap on unix, VirtualAlloc on windows), which is
// zero-filled on demand and kept out of the Go heap. Smaller pools, and large
// pools whose mapping fails, are allocated on the heap. The buffer is always
// released by the mechanism that produced it. See WithAllocator and
// WithMapThreshold to change this.
//
// # Memory Hygiene
//
// Payloads such as decoded passwords must not linger in reused memory. Bytes
// cut off by a shrinking Reallocate, blocks abandoned by a relocating
// Reallocate and everything discarded by Reset are zeroed before the pool can
// hand them out again.
//
// # Thread Safety
//
// A Pool is owned by exactly one connection and is not goroutine-safe. Only
// the process-wide counters returned by ReadStats may be read concurrently.
//
// # Contract Violations
//
// Passing a foreign block, reallocating an end block or resetting with a
// newSize smaller than the kept data are caller errors. Build with the
// connpool_debug tag to turn them into panics.
package connpool
