package service

import (
	"sync"
	"testing"
)

func TestSessionLocksSerializePerID(t *testing.T) {
	locks := newSessionLocks()

	const goroutines = 20
	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			release := locks.acquire("sess_1")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("counter = %d, want %d", counter, goroutines)
	}
}

func TestSessionLocksReleaseRemovesIdleEntry(t *testing.T) {
	locks := newSessionLocks()

	release := locks.acquire("sess_1")
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Errorf("idle lock entry not removed: %d remain", len(locks.locks))
	}
}

func TestSessionLocksIndependentIDs(t *testing.T) {
	locks := newSessionLocks()

	releaseA := locks.acquire("sess_a")
	// A held lock on one session must not block another session.
	done := make(chan struct{})
	go func() {
		releaseB := locks.acquire("sess_b")
		releaseB()
		close(done)
	}()
	<-done
	releaseA()
}
