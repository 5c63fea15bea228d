package spinlock

import (
	"runtime"
	"sync/atomic"
)

const maxSpins = 16

// SpinLock is an implementation of spinlock.
//
// Critical sections guarded by a SpinLock must be very short, otherwise
// waiters burn CPU. It exists for paths where a sync.Mutex is measurably
// heavier than the section it guards.
type SpinLock struct {
	locked atomic.Uint32
}

// Lock locks sl. If the lock is already in use, the calling goroutine spins
// until the spinlock is available, yielding the processor after maxSpins
// unsuccessful probes.
func (sl *SpinLock) Lock() {
	spins := 0
	for {
		for sl.locked.Load() == 1 {
			spins++
			if spins > maxSpins {
				spins = 0
				runtime.Gosched()
			}
		}

		if sl.locked.CompareAndSwap(0, 1) {
			return
		}

		spins = 0
	}
}

// TryLock attempts to lock sl without spinning and reports whether it succeeded.
func (sl *SpinLock) TryLock() bool {
	return sl.locked.Load() == 0 && sl.locked.CompareAndSwap(0, 1)
}

// Unlock unlocks sl. A locked SpinLock is not associated with a particular goroutine.
// It is allowed for one goroutine to lock a SpinLock and then arrange for another goroutine to unlock it.
func (sl *SpinLock) Unlock() {
	sl.locked.Store(0)
}
