//go:build unix

package connpool

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type mmapAllocator struct{}

func mappedAllocator() Allocator { return mmapAllocator{} }

func (mmapAllocator) Acquire(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("mmap: empty region")
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", size)
	}
	return buf, nil
}

func (mmapAllocator) Release(buf []byte) error {
	if err := unix.Munmap(buf); err != nil {
		return errors.Wrapf(err, "munmap %d bytes", len(buf))
	}
	return nil
}

func (mmapAllocator) Backing() Backing { return BackingMapped }
