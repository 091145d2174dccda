package utils

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// ReentrantMutex is an exclusive lock that the owning goroutine may acquire
// again without blocking itself. Every Lock must be paired with an Unlock from
// the same goroutine.
type ReentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (m *ReentrantMutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

func (m *ReentrantMutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic("utils: unlock of ReentrantMutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// HeldByCurrent reports whether the calling goroutine owns the lock.
func (m *ReentrantMutex) HeldByCurrent() bool {
	return m.owner.Load() == goid.Get()
}
