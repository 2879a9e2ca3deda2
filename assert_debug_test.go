//go:build connpool_debug

package connpool

import "testing"

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestDebugAssertions(t *testing.T) {
	t.Run("ReallocateEndBlock", func(t *testing.T) {
		p := mustNew(t, 256)
		defer p.Destroy()
		e, _ := p.Allocate(32, true)
		mustPanic(t, "Reallocate(end block)", func() { _, _ = p.Reallocate(e, 64) })
	})

	t.Run("ReallocateForeignBlock", func(t *testing.T) {
		p := mustNew(t, 256)
		defer p.Destroy()
		mustPanic(t, "Reallocate(foreign)", func() { _, _ = p.Reallocate(make([]byte, 8), 16) })
	})

	t.Run("ResetShrinkingKeep", func(t *testing.T) {
		p := mustNew(t, 256)
		defer p.Destroy()
		b, _ := p.Allocate(64, false)
		mustPanic(t, "Reset(newSize < keep)", func() { p.Reset(b, 8) })
	})

	t.Run("UseAfterDestroy", func(t *testing.T) {
		p := mustNew(t, 256)
		if err := p.Destroy(); err != nil {
			t.Fatal(err)
		}
		mustPanic(t, "Allocate after Destroy", func() { _, _ = p.Allocate(8, false) })
		mustPanic(t, "second Destroy", func() { _ = p.Destroy() })
	})
}
