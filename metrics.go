package allocctx

import "fmt"

// AllocationInfo is a point-in-time snapshot of backend byte counters.
type AllocationInfo struct {
	SystemAllocated uint64 `json:"system_allocated"` // Bytes handed out by the Go heap
	ArenaAllocated  uint64 `json:"arena_allocated"`  // Bytes consumed in the arena, padding included
	ArenaRemaining  uint64 `json:"arena_remaining"`  // Bytes left in the arena
	PoolAllocated   uint64 `json:"pool_allocated"`   // Bytes consumed in the pool, padding included
	PoolRemaining   uint64 `json:"pool_remaining"`   // Bytes left in the pool
}

// ArenaUtilization returns the ratio of consumed to total arena capacity (0.0 to 1.0).
func (i AllocationInfo) ArenaUtilization() float64 {
	return utilization(i.ArenaAllocated)
}

// PoolUtilization returns the ratio of consumed to total pool capacity (0.0 to 1.0).
func (i AllocationInfo) PoolUtilization() float64 {
	return utilization(i.PoolAllocated)
}

func utilization(used uint64) float64 {
	return float64(used) / float64(BackendCapacity)
}

func (i AllocationInfo) String() string {
	return fmt.Sprintf("AllocationInfo { system_allocated: %d, arena_allocated: %d, arena_remaining: %d, pool_allocated: %d, pool_remaining: %d }",
		i.SystemAllocated, i.ArenaAllocated, i.ArenaRemaining, i.PoolAllocated, i.PoolRemaining)
}
