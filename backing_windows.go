//go:build windows

package connpool

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type virtualAllocator struct{}

func mappedAllocator() Allocator { return virtualAllocator{} }

func (virtualAllocator) Acquire(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("VirtualAlloc: empty region")
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, errors.Wrapf(err, "VirtualAlloc %d bytes", size)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (virtualAllocator) Release(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return errors.Wrapf(err, "VirtualFree %d bytes", len(buf))
	}
	return nil
}

func (virtualAllocator) Backing() Backing { return BackingMapped }
