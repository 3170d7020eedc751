package allocctx

import (
	"math"
	"unsafe"

	"github.com/modern-go/reflect2"
)

// New returns a pointer to a zeroed T allocated from m's active backend,
// or nil if the backend cannot serve it.
//
// Arena and Pool memory is not scanned by the garbage collector: a T stored
// there must not hold the only reference to a heap object.
func New[T any](m *Manager) *T {
	var zero T
	b, err := m.Alloc(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
	if err != nil {
		return nil
	}
	if len(b) == 0 {
		// Zero-sized types.
		return &zero
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// MakeSlice allocates a slice of n elements of type T from m's active
// backend. The elements are not initialized; Arena and Pool regions may
// contain data from earlier allocations.
// Returns nil if n <= 0, the byte size overflows int, or the backend
// cannot serve the request.
func MakeSlice[T any](m *Manager, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n)
	}
	if n > math.MaxInt/elemSize {
		return nil
	}
	b, err := m.Alloc(elemSize*n, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// MakeSliceZeroed is MakeSlice with the elements set to their zero value.
func MakeSliceZeroed[T any](m *Manager, n int) []T {
	s := MakeSlice[T](m, n)
	clear(s)
	return s
}

// AllocString copies s into m's active backend.
// Returns "" if s is empty or the backend cannot serve it.
func AllocString(m *Manager, s string) string {
	b, err := m.Alloc(len(s), 1)
	if err != nil || len(b) == 0 {
		return ""
	}
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// AllocType returns zeroed memory laid out for typ, or nil if the active
// backend cannot serve it. It serves callers that only know the type at
// run time.
func AllocType(m *Manager, typ reflect2.Type) unsafe.Pointer {
	rt := typ.Type1()
	size := int(rt.Size())
	if size == 0 {
		return typ.UnsafeNew()
	}
	b, err := m.Alloc(size, rt.Align())
	if err != nil {
		return nil
	}
	clear(b)
	return unsafe.Pointer(unsafe.SliceData(b))
}
