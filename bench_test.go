package connpool

import (
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkRequestCycle tests the per-request pattern the pool is built for
func BenchmarkRequestCycle(b *testing.B) {

	// Test 1: Header-sized allocations with a reset per request
	b.Run("ManySmallAllocs/Pool", func(b *testing.B) {
		p := mustNew(b, 64*1024)
		defer p.Destroy()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				if _, err := p.Allocate(64, false); err != nil {
					b.Fatal(err)
				}
			}
			p.Reset(nil, 0)
		}
	})

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 100)
			for j := 0; j < 100; j++ {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Test 2: Growing a read buffer
	b.Run("GrowBuffer/Pool", func(b *testing.B) {
		p := mustNew(b, 64*1024)
		defer p.Destroy()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buf, _ := p.Allocate(512, false)
			for n := 1024; n <= 32*1024; n *= 2 {
				buf, _ = p.Reallocate(buf, n)
			}
			p.Reset(buf[:128], 1024)
		}
	})

	b.Run("GrowBuffer/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buf := make([]byte, 512)
			for n := 1024; n <= 32*1024; n *= 2 {
				nb := make([]byte, n)
				copy(nb, buf)
				buf = nb
			}
			_ = buf
		}
	})
}

func BenchmarkNewDestroy(b *testing.B) {
	for _, size := range []int{4 * 1024, 256 * 1024} {
		b.Run(fmt.Sprintf("%dKiB", size/1024), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				p := mustNew(b, size)
				_ = p.Destroy()
			}
		})
	}
}
