package allocctx

import (
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// systemAllocator passes requests through to the Go heap and keeps a
// running total of the bytes it handed out.
type systemAllocator struct {
	_         cpu.CacheLinePad
	allocated atomic.Uint64
	_         cpu.CacheLinePad
}

// maxSystemAlloc bounds a single heap request: 1<<47-1 on 64-bit targets,
// math.MaxInt on 32-bit ones. Larger lengths make make() panic.
const maxSystemAlloc = uintptr(math.MaxInt) >> (16 * (^uintptr(0) >> 63))

func (s *systemAllocator) alloc(size, align uintptr) ([]byte, error) {
	if size > maxSystemAlloc || align > maxSystemAlloc-size {
		return nil, ErrSystemExhausted
	}
	b := make([]byte, size)
	if addr := uintptr(unsafe.Pointer(unsafe.SliceData(b))); addr&(align-1) != 0 {
		// The heap only guarantees alignment by size class. Over-allocate
		// and shift to the requested boundary.
		raw := make([]byte, size+align)
		addr = uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
		shift := ((addr + align - 1) &^ (align - 1)) - addr
		b = raw[shift : shift+size : shift+size]
	}
	s.allocated.Add(uint64(size))
	return b, nil
}

// release subtracts size from the running total, saturating at zero. The
// Go heap reclaims the memory itself once it is unreachable.
func (s *systemAllocator) release(size uintptr) {
	for {
		cur := s.allocated.Load()
		next := uint64(0)
		if uint64(size) < cur {
			next = cur - uint64(size)
		}
		if s.allocated.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (s *systemAllocator) total() uint64 {
	return s.allocated.Load()
}
