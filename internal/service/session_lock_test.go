package service

import (
	"sync"
	"testing"
)

func TestSessionLocks_MutualExclusion(t *testing.T) {
	locks := newSessionLocks()

	const goroutines = 20
	const increments = 100
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				unlock := locks.Lock("s1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*increments {
		t.Fatalf("expected %d, got %d (lock did not serialize)", goroutines*increments, counter)
	}
}

func TestSessionLocks_IndependentSessions(t *testing.T) {
	locks := newSessionLocks()

	unlockA := locks.Lock("a")
	// Si las sesiones compartieran lock, esto bloquearía para siempre.
	unlockB := locks.Lock("b")
	unlockB()
	unlockA()
}

func TestSessionLocks_CleansUpEntries(t *testing.T) {
	locks := newSessionLocks()

	unlock := locks.Lock("s1")
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Fatalf("expected lock map empty after release, got %d entries", len(locks.locks))
	}
}
