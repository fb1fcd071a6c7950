package concurrency

import (
	"sync"
)

// LockManager hands out per-key mutexes. An entry lives only while someone
// holds or waits for it, so one lock per patient email does not accumulate.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// Lock acquires the named lock and returns its release function.
// Calling release more than once is a no-op.
func (lm *LockManager) Lock(key string) func() {
	lm.mu.Lock()
	kl, ok := lm.locks[key]
	if !ok {
		kl = &keyLock{}
		lm.locks[key] = kl
	}
	kl.refs++
	lm.mu.Unlock()

	kl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			kl.mu.Unlock()
			lm.mu.Lock()
			kl.refs--
			if kl.refs == 0 {
				delete(lm.locks, key)
			}
			lm.mu.Unlock()
		})
	}
}

// size reports how many keys are currently held or awaited
func (lm *LockManager) size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
