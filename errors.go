package allocctx

import "github.com/cockroachdb/errors"

// Allocation failures. They are created once so that a failing allocation
// never allocates an error value.
var (
	// ErrCapacityExhausted is returned when a bump backend cannot fit the request.
	ErrCapacityExhausted = errors.New("allocctx: backend capacity exhausted")
	// ErrSystemExhausted is returned when a System request is too large for the heap.
	ErrSystemExhausted = errors.New("allocctx: system allocation too large")
	// ErrUnsupportedAlignment is returned for alignments above MaxAlign.
	ErrUnsupportedAlignment = errors.New("allocctx: unsupported alignment")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("allocctx: invalid size")
	// ErrInvalidAlignment is returned when the alignment is not a power of two.
	ErrInvalidAlignment = errors.New("allocctx: alignment must be a power of two")
	// ErrUnknownContext is returned by ParseContext.
	ErrUnknownContext = errors.New("allocctx: unknown context")
)
