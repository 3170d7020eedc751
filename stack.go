package allocctx

import (
	"runtime"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// StackCapacity is the maximum nesting depth of the context stack,
// counting the initial System entry.
const StackCapacity = 1024

// Every pushed entry gets an id. The top word packs the id, index and
// context of the top entry, so push and current() only ever touch that
// word. Slot i holds what pop needs to restore the entry below i: the
// id of entry i (to show the slot has been written for it) and the id and
// context of entry i-1.
//
//	top:     id (idBits) | index (16) | context (8)
//	slot[i]: id (idBits) | below id (idBits) | below context (8)
//
// Id 0 belongs to the initial System entry and is never issued.
const (
	idBits   = 28
	idMask   = 1<<idBits - 1
	idxBits  = 16
	ctxBits  = 8
	ctxMask  = 1<<ctxBits - 1
	idxShift = ctxBits
	idShift  = ctxBits + idxBits
)

func packTop(id, idx uint64, c Context) uint64 {
	return id<<idShift | idx<<idxShift | uint64(c)
}

func unpackTop(w uint64) (id, idx uint64, c Context) {
	return w >> idShift & idMask, w >> idxShift & (1<<idxBits - 1), Context(w & ctxMask)
}

func packSlot(id, belowID uint64, below Context) uint64 {
	return id<<(idBits+ctxBits) | belowID<<ctxBits | uint64(below)
}

func unpackSlot(s uint64) (id, belowID uint64, below Context) {
	return s >> (idBits + ctxBits) & idMask, s >> ctxBits & idMask, Context(s & ctxMask)
}

// contextStack is the process-wide record of active contexts.
// The zero value holds a single System entry at index 0.
type contextStack struct {
	top    atomic.Uint64
	issued atomic.Uint64
	slots  [StackCapacity]atomic.Uint64
}

func (s *contextStack) nextID() uint64 {
	return s.issued.Add(1)%idMask + 1
}

func (s *contextStack) push(c Context) {
	if !c.Valid() {
		panic(errors.AssertionFailedf("allocctx: push of invalid context %d", c))
	}
	id := s.nextID()
	for {
		w := s.top.Load()
		belowID, idx, below := unpackTop(w)
		if idx+1 >= StackCapacity {
			panic(errors.AssertionFailedf("allocctx: context stack overflow (capacity %d)", StackCapacity))
		}
		if s.top.CompareAndSwap(w, packTop(id, idx+1, c)) {
			// Only the winner writes the slot. Nobody can pop this entry
			// until the slot carries its id, so no later push can reach
			// idx+1 first.
			s.slots[idx+1].Store(packSlot(id, belowID, below))
			return
		}
	}
}

// pop retreats the top by one. The vacated slot is left as is.
func (s *contextStack) pop() {
	for {
		w := s.top.Load()
		id, idx, _ := unpackTop(w)
		if idx == 0 {
			panic(errors.AssertionFailedf("allocctx: context stack underflow"))
		}
		slotID, belowID, below := unpackSlot(s.slots[idx].Load())
		if slotID != id {
			// The push that made this entry has won its CAS but not yet
			// written the slot.
			runtime.Gosched()
			continue
		}
		if s.top.CompareAndSwap(w, packTop(belowID, idx-1, below)) {
			return
		}
	}
}

func (s *contextStack) current() Context {
	_, _, c := unpackTop(s.top.Load())
	return c
}

func (s *contextStack) depth() int {
	_, idx, _ := unpackTop(s.top.Load())
	return int(idx)
}
