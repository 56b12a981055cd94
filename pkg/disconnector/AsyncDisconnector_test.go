package disconnector

import "sync"
import "testing"
import "time"

func TestSubmitRunsJobAsynchronously(t *testing.T) {
	disc := NewAsyncDisconnector()
	defer disc.Stop()

	var wg sync.WaitGroup
	wg.Add(1)

	ran := false
	disc.Submit(func() {
		ran = true
		wg.Done()
	})

	waitWithTimeout(t, &wg, time.Second)

	if !ran { t.Errorf("expected submitted job to run") }
}

func TestStopDrainsPendingJobs(t *testing.T) {
	disc := NewAsyncDisconnector()

	var mutex sync.Mutex
	count := 0

	for i := 0; i < 5; i++ {
		disc.Submit(func() {
			mutex.Lock()
			count++
			mutex.Unlock()
		})
	}

	disc.Stop()

	mutex.Lock()
	defer mutex.Unlock()

	if count != 5 {
		t.Errorf("expected all 5 jobs to run before Stop returned, got %d", count)
	}
}

func waitWithTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <- done:
	case <- time.After(timeout):
		t.Fatalf("timed out waiting for job")
	}
}
