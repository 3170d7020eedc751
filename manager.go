package allocctx

import (
	"sync/atomic"
	"unsafe"
)

// Manager dispatches every allocation to the backend selected by the top
// of its context stack.
//
// The zero value is ready to use and needs no initialisation, which lets
// Default live in static data. A Manager must not be copied after first use.
type Manager struct {
	stack  contextStack
	system systemAllocator
	arena  bumpAllocator
	pool   bumpAllocator

	accountSystemFree atomic.Bool
}

// Default is the process allocator used by the package-level functions.
var Default Manager

// Alloc returns size bytes aligned to align from the backend selected by
// the current context. A zero size returns a nil slice and no error,
// unless the alignment is one the active bump backend cannot serve.
//
// There is no fallback: when the Arena or Pool is exhausted the call
// fails with ErrCapacityExhausted even though the Go heap could serve it.
func (m *Manager) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if align <= 0 || align&(align-1) != 0 {
		return nil, ErrInvalidAlignment
	}
	c := m.stack.current()
	if size == 0 {
		if c != System && align > MaxAlign {
			return nil, ErrUnsupportedAlignment
		}
		return nil, nil
	}
	switch c {
	case Arena:
		return m.arena.alloc(uintptr(size), uintptr(align))
	case Pool:
		return m.pool.alloc(uintptr(size), uintptr(align))
	default:
		return m.system.alloc(uintptr(size), uintptr(align))
	}
}

// AllocBytes returns n pointer-aligned bytes, or nil if n <= 0 or the
// active backend cannot serve the request.
func (m *Manager) AllocBytes(n int) []byte {
	b, err := m.Alloc(n, int(unsafe.Sizeof(uintptr(0))))
	if err != nil {
		return nil
	}
	return b
}

// Free releases b. Arena and Pool memory is never reclaimed. For System
// memory Free is also a no-op unless SetAccountSystemFree(true) was called,
// in which case len(b) is subtracted from the system byte count.
func (m *Manager) Free(b []byte) {
	switch {
	case cap(b) == 0:
	case m.arena.contains(b):
		m.arena.free(b)
	case m.pool.contains(b):
		m.pool.free(b)
	case m.accountSystemFree.Load():
		m.system.release(uintptr(len(b)))
	}
}

// SetAccountSystemFree toggles system-free accounting. It is off by
// default, which keeps system_allocated monotonic.
func (m *Manager) SetAccountSystemFree(on bool) {
	m.accountSystemFree.Store(on)
}

// Push makes c the active context for all goroutines. It panics if the
// stack already holds StackCapacity entries.
func (m *Manager) Push(c Context) {
	m.stack.push(c)
}

// Pop restores the context that was active before the last Push. It
// panics when only the initial System entry remains.
func (m *Manager) Pop() {
	m.stack.pop()
}

// Current returns the active context.
func (m *Manager) Current() Context {
	return m.stack.current()
}

// Depth returns the number of contexts pushed above the initial entry.
func (m *Manager) Depth() int {
	return m.stack.depth()
}

// Info returns a snapshot of the backend counters. Each field is read on
// its own, so concurrent allocations can make fields disagree.
func (m *Manager) Info() AllocationInfo {
	return AllocationInfo{
		SystemAllocated: m.system.total(),
		ArenaAllocated:  m.arena.allocated(),
		ArenaRemaining:  m.arena.remaining(),
		PoolAllocated:   m.pool.allocated(),
		PoolRemaining:   m.pool.remaining(),
	}
}

// Alloc calls Default.Alloc.
func Alloc(size, align int) ([]byte, error) { return Default.Alloc(size, align) }

// AllocBytes calls Default.AllocBytes.
func AllocBytes(n int) []byte { return Default.AllocBytes(n) }

// Free calls Default.Free.
func Free(b []byte) { Default.Free(b) }

// SetAccountSystemFree calls Default.SetAccountSystemFree.
func SetAccountSystemFree(on bool) { Default.SetAccountSystemFree(on) }

// Current returns the active context of Default.
func Current() Context { return Default.Current() }

// Depth returns the stack depth of Default.
func Depth() int { return Default.Depth() }

// Info returns a snapshot of Default's counters.
func Info() AllocationInfo { return Default.Info() }
