package allocctx

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Context selects the backend that serves allocations.
// The zero value is System.
type Context uint8

const (
	// System delegates to the Go heap.
	System Context = iota
	// Arena serves allocations from the fixed arena region.
	Arena
	// Pool serves allocations from the fixed pool region.
	Pool

	numContexts
)

func (c Context) String() string {
	switch c {
	case System:
		return "system"
	case Arena:
		return "arena"
	case Pool:
		return "pool"
	}
	return "Context(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is one of the defined contexts.
func (c Context) Valid() bool {
	return c < numContexts
}

// ParseContext returns the context named s (case-insensitive).
func ParseContext(s string) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return System, nil
	case "arena":
		return Arena, nil
	case "pool":
		return Pool, nil
	}
	return System, errors.Wrapf(ErrUnknownContext, "%q", s)
}
