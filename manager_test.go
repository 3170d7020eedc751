package allocctx

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerZeroValue(t *testing.T) {
	m := new(Manager)
	assert.Equal(t, System, m.Current())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, AllocationInfo{
		ArenaRemaining: BackendCapacity,
		PoolRemaining:  BackendCapacity,
	}, m.Info())
}

func TestManagerAllocArguments(t *testing.T) {
	m := new(Manager)

	_, err := m.Alloc(-1, 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	for _, align := range []int{0, -8, 3, 12} {
		_, err = m.Alloc(8, align)
		assert.ErrorIs(t, err, ErrInvalidAlignment, "align %d", align)
	}

	b, err := m.Alloc(0, 8)
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.Zero(t, m.Info().SystemAllocated)
}

func TestManagerZeroSizeAlignment(t *testing.T) {
	for _, c := range []Context{Arena, Pool} {
		m := new(Manager)
		m.Push(c)
		b, err := m.Alloc(0, MaxAlign*2)
		assert.ErrorIs(t, err, ErrUnsupportedAlignment, c.String())
		assert.Nil(t, b)

		b, err = m.Alloc(0, MaxAlign)
		assert.NoError(t, err, c.String())
		assert.Nil(t, b)
		m.Pop()
	}

	m := new(Manager)
	b, err := m.Alloc(0, MaxAlign*2)
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestManagerSystemTooLarge(t *testing.T) {
	m := new(Manager)

	b, err := m.Alloc(math.MaxInt, 1)
	assert.ErrorIs(t, err, ErrSystemExhausted)
	assert.Nil(t, b)

	b, err = m.Alloc(8, math.MaxInt/2+1)
	assert.ErrorIs(t, err, ErrSystemExhausted)
	assert.Nil(t, b)

	assert.Nil(t, m.AllocBytes(math.MaxInt))
	assert.Zero(t, m.Info().SystemAllocated)
}

func TestManagerDispatch(t *testing.T) {
	tests := []struct {
		ctx    Context
		system uint64
		arena  uint64
		pool   uint64
	}{
		{System, 64, 0, 0},
		{Arena, 0, 64, 0},
		{Pool, 0, 0, 64},
	}
	for _, tt := range tests {
		t.Run(tt.ctx.String(), func(t *testing.T) {
			m := new(Manager)
			m.Push(tt.ctx)
			b, err := m.Alloc(64, 8)
			m.Pop()
			require.NoError(t, err)
			require.Len(t, b, 64)

			info := m.Info()
			assert.Equal(t, tt.system, info.SystemAllocated)
			assert.Equal(t, tt.arena, info.ArenaAllocated)
			assert.Equal(t, tt.pool, info.PoolAllocated)
			assert.Equal(t, tt.ctx == Arena, m.arena.contains(b))
			assert.Equal(t, tt.ctx == Pool, m.pool.contains(b))
		})
	}
}

func TestManagerNoFallback(t *testing.T) {
	m := new(Manager)
	m.Push(Arena)
	defer m.Pop()

	_, err := m.Alloc(BackendCapacity+1, 1)
	require.ErrorIs(t, err, ErrCapacityExhausted)
	info := m.Info()
	assert.Zero(t, info.SystemAllocated, "exhaustion must not fall back to the heap")
	assert.Zero(t, info.PoolAllocated)
	assert.Equal(t, uint64(BackendCapacity), info.ArenaRemaining)
}

// Mirrors the System -> Arena -> Pool walkthrough of the allocator.
func TestManagerScenario(t *testing.T) {
	m := new(Manager)

	before := m.Info()
	_, err := m.Alloc(4, 1)
	require.NoError(t, err)
	after := m.Info()
	assert.GreaterOrEqual(t, after.SystemAllocated-before.SystemAllocated, uint64(4))
	assert.Zero(t, after.ArenaAllocated)
	assert.Zero(t, after.PoolAllocated)

	m.With(Arena, func() {
		b, err := m.Alloc(16, 8)
		require.NoError(t, err)
		assert.Zero(t, uintptr(unsafe.Pointer(unsafe.SliceData(b)))%8)
	})
	info := m.Info()
	assert.Equal(t, uint64(16), info.ArenaAllocated)
	assert.Equal(t, uint64(BackendCapacity-16), info.ArenaRemaining)
	assert.Equal(t, System, m.Current())

	m.With(Pool, func() {
		_, err := m.Alloc(BackendCapacity+1, 1)
		assert.ErrorIs(t, err, ErrCapacityExhausted)
	})
	assert.Equal(t, uint64(131072), m.Info().PoolRemaining)
}

func TestManagerAllocBytes(t *testing.T) {
	m := new(Manager)
	assert.Nil(t, m.AllocBytes(0))
	assert.Nil(t, m.AllocBytes(-1))
	assert.Len(t, m.AllocBytes(100), 100)

	m.Push(Pool)
	defer m.Pop()
	assert.Nil(t, m.AllocBytes(BackendCapacity+1))
	assert.Len(t, m.AllocBytes(BackendCapacity), BackendCapacity)
}

func TestManagerFreeLegacyNoop(t *testing.T) {
	m := new(Manager)
	b, err := m.Alloc(100, 1)
	require.NoError(t, err)

	m.Free(b)
	assert.Equal(t, uint64(100), m.Info().SystemAllocated)
}

func TestManagerFreeAccountsSystem(t *testing.T) {
	m := new(Manager)
	m.SetAccountSystemFree(true)

	sys, err := m.Alloc(100, 1)
	require.NoError(t, err)
	m.Push(Arena)
	arena, err := m.Alloc(32, 8)
	require.NoError(t, err)
	m.Pop()

	m.Free(arena)
	assert.Equal(t, uint64(32), m.Info().ArenaAllocated, "arena memory is never reclaimed")
	assert.Equal(t, uint64(100), m.Info().SystemAllocated)

	m.Free(sys)
	assert.Zero(t, m.Info().SystemAllocated)

	// Saturates instead of wrapping.
	m.Free(make([]byte, 10))
	assert.Zero(t, m.Info().SystemAllocated)
}

func TestManagerFreeBumpNoop(t *testing.T) {
	for _, account := range []bool{false, true} {
		m := new(Manager)
		m.SetAccountSystemFree(account)
		var arena, pool []byte
		m.With(Arena, func() { arena = m.AllocBytes(64) })
		m.With(Pool, func() { pool = m.AllocBytes(32) })
		require.NotNil(t, arena)
		require.NotNil(t, pool)

		before := m.Info()
		m.Free(arena)
		m.Free(pool)
		m.Free(nil)
		assert.Equal(t, before, m.Info(), "account=%v", account)
	}
}

func TestDefaultManager(t *testing.T) {
	require.Equal(t, System, Current())
	before := Info()

	g := Enter(Arena)
	b := AllocBytes(24)
	g.Release()

	require.Len(t, b, 24)
	assert.Equal(t, System, Current())
	assert.Equal(t, 0, Depth())
	assert.Equal(t, before.ArenaAllocated+24, Info().ArenaAllocated)
	assert.Equal(t, before.SystemAllocated, Info().SystemAllocated)
}
