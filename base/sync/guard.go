package sync

import (
	"fmt"
	"sync/atomic"
)

// Guard detects re-entrant or concurrent use of a structure that is only
// meant to be driven by a single goroutine at a time. Enter returns a
// function that must be deferred to release the guard; a second Enter while
// the first is still held panics rather than silently corrupting state.
//
// The core checker types embed a Guard instead of a sync.Mutex: spec.md
// describes the checker as strictly single-threaded and cooperative, so
// blocking on contention would hide a real embedder bug, so misuse fails
// loudly instead.
type Guard struct {
	held atomic.Bool
}

// Enter marks the guard as held and returns a release function.
func (g *Guard) Enter() func() {
	if !g.held.CompareAndSwap(false, true) {
		panic(fmt.Errorf("sync.Guard: concurrent access detected; this structure is single-threaded by design"))
	}
	return func() { g.held.Store(false) }
}
