package allocctx

// Guard keeps a context active until Release is called.
//
//	g := allocctx.Enter(allocctx.Arena)
//	defer g.Release()
//
// The context is process-wide: while the guard is held, allocations made
// by every goroutine through the same Manager use it.
//
// Enter hands out a *Guard; share the pointer, never a copy of the value.
// A copied Guard has its own released flag and would pop a second time.
type Guard struct {
	m        *Manager
	ctx      Context
	released bool
}

// Enter pushes c onto m's context stack and returns a guard that pops it.
func (m *Manager) Enter(c Context) *Guard {
	m.stack.push(c)
	return &Guard{m: m, ctx: c}
}

// Release pops the context pushed by Enter. Only the first call through
// a given *Guard has an effect.
func (g *Guard) Release() {
	if g.released || g.m == nil {
		return
	}
	g.released = true
	g.m.stack.pop()
}

// Context returns the context the guard pushed.
func (g *Guard) Context() Context {
	return g.ctx
}

// With runs fn with c active and restores the previous context when fn
// returns or panics.
func (m *Manager) With(c Context, fn func()) {
	g := m.Enter(c)
	defer g.Release()
	fn()
}

// Enter calls Default.Enter.
func Enter(c Context) *Guard { return Default.Enter(c) }

// With calls Default.With.
func With(c Context, fn func()) { Default.With(c, fn) }
