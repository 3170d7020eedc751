package allocctx

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const (
	// BackendCapacity is the size of the Arena and Pool regions (128 KiB).
	BackendCapacity = 128 << 10
	// MaxAlign is the largest alignment the Arena and Pool can serve.
	MaxAlign = 4096
)

// bumpAllocator is a fixed-capacity bump allocator that hands out memory
// from the top of its region downward. Memory is never reclaimed.
//
// The zero value is ready to use: used counts bytes consumed from the top,
// so a zero counter means the whole region is free.
type bumpAllocator struct {
	_    cpu.CacheLinePad
	used atomic.Uint64
	_    cpu.CacheLinePad
	// buf has MaxAlign bytes of slack so that the usable region can start
	// on a MaxAlign boundary wherever buf itself lands.
	buf [BackendCapacity + MaxAlign]byte
}

// base returns the MaxAlign-aligned start of the usable region.
// Go never moves heap or static objects, so the result is stable.
func (b *bumpAllocator) base() uintptr {
	p := uintptr(unsafe.Pointer(&b.buf[0]))
	return (p + MaxAlign - 1) &^ (MaxAlign - 1)
}

// alloc reserves size bytes aligned to align. align must be a power of two.
func (b *bumpAllocator) alloc(size, align uintptr) ([]byte, error) {
	if align > MaxAlign {
		return nil, ErrUnsupportedAlignment
	}
	mask := ^(align - 1)

	for {
		used := b.used.Load()
		remaining := uintptr(BackendCapacity - used)
		if size > remaining {
			return nil, ErrCapacityExhausted
		}
		newRemaining := (remaining - size) & mask
		if b.used.CompareAndSwap(used, uint64(BackendCapacity-newRemaining)) {
			off := b.base() - uintptr(unsafe.Pointer(&b.buf[0])) + newRemaining
			return unsafe.Slice(&b.buf[off], size), nil
		}
	}
}

// free is a no-op; bump memory lives until the process exits.
func (b *bumpAllocator) free([]byte) {}

// contains reports whether p lies inside the usable region.
func (b *bumpAllocator) contains(p []byte) bool {
	if cap(p) == 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	lo := b.base()
	return addr >= lo && addr < lo+BackendCapacity
}

func (b *bumpAllocator) remaining() uint64 {
	return BackendCapacity - b.used.Load()
}

func (b *bumpAllocator) allocated() uint64 {
	return b.used.Load()
}
