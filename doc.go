// Package allocctx implements a process-wide pluggable allocator whose
// memory source is switched with scoped guards.
//
// # Overview
//
// A Manager routes each allocation to one of three backends:
//
//   - System: the Go heap, with a running byte count
//   - Arena: a fixed 128 KiB bump region
//   - Pool: a second, independent 128 KiB bump region
//
// The active backend is the top of a context stack. The stack is shared by
// every goroutine: entering a context changes where all allocations made
// through the Manager go until the guard is released.
//
// # Basic Usage
//
//	g := allocctx.Enter(allocctx.Arena)
//	defer g.Release()
//
//	buf := allocctx.AllocBytes(1024)            // from the arena
//	p := allocctx.New[MyStruct](&allocctx.Default)
//	s := allocctx.MakeSlice[int](&allocctx.Default, 100)
//
// Guards nest; the innermost one wins:
//
//	allocctx.With(allocctx.Pool, func() {
//		// allocations here come from the pool
//	})
//
// # Memory Layout
//
// The Arena and Pool regions start on a MaxAlign (4096) boundary and are
// filled from the top down. A request is rejected when its alignment is
// larger than MaxAlign or its size exceeds the bytes left; there is no
// fallback to another backend.
//
// # Performance Characteristics
//
//   - Allocation: O(1), a compare-and-swap loop on one counter
//   - Context switch: one compare-and-swap on the packed stack top
//   - Free: no-op
//
// # Important Notes
//
//   - Arena and Pool memory is never reclaimed and is not scanned by the
//     garbage collector; do not store the only reference to a heap object there
//   - System memory is left to the garbage collector; Free only adjusts the
//     byte count when SetAccountSystemFree(true) is set
//   - Nesting beyond StackCapacity, or popping the initial entry, panics
//   - The zero Manager is ready to use, so Default needs no initialisation
//
// # Metrics and Monitoring
//
// Info returns an AllocationInfo snapshot. Its fields are read one at a
// time, so they may disagree while other goroutines allocate. Package
// allocmetrics exports the snapshot to Prometheus and package debughttp
// serves it over HTTP.
package allocctx
