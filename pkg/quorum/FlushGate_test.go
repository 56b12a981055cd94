package quorum

import "sync"
import "testing"
import "time"

import "tsquorum/pkg/lsa"

func TestWaitForFlushedLsaUnblocksOnConsensus(t *testing.T) {
	var mutex sync.Mutex
	consensus := lsa.Null
	quorumMet := false

	gate := NewFlushGate(func() (lsa.LSA, bool) {
		mutex.Lock()
		defer mutex.Unlock()

		return consensus, quorumMet
	})

	target := lsa.LSA{ PageID: 1, Offset: 0 }

	done := make(chan struct{})
	go func() {
		gate.WaitForFlushedLsa(target)
		close(done)
	}()

	select {
	case <- done:
		t.Fatalf("gate unblocked before consensus was advanced")
	case <- time.After(50 * time.Millisecond):
	}

	mutex.Lock()
	consensus = target
	quorumMet = true
	mutex.Unlock()

	gate.WakeupWaiters()

	select {
	case <- done:
	case <- time.After(1 * time.Second):
		t.Fatalf("gate did not unblock after consensus advanced")
	}
}

func TestOnlyOneWaiterRecomputesPerWakeup(t *testing.T) {
	var computeCount int
	var mutex sync.Mutex

	gate := NewFlushGate(func() (lsa.LSA, bool) {
		mutex.Lock()
		computeCount++
		mutex.Unlock()

		return lsa.Null, false
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			done := make(chan struct{})
			go func() {
				gate.WaitForFlushedLsa(lsa.LSA{ PageID: 1 })
				close(done)
			}()

			select {
			case <- done:
			case <- time.After(20 * time.Millisecond):
			}
		}()
	}
	wg.Wait()

	mutex.Lock()
	defer mutex.Unlock()

	if computeCount != 1 { t.Errorf("expected exactly one recompute across 5 waiters, got %d", computeCount) }
}
