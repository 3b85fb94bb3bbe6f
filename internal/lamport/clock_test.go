package lamport

import (
	"sync"
	"testing"
)

func TestTickFromZero(t *testing.T) {
	var clk Clock
	if got := clk.Tick(); got != 1 {
		t.Fatalf("Tick() = %d, want 1", got)
	}
	if got := clk.Time(); got != 1 {
		t.Fatalf("Time() = %d, want 1", got)
	}
}

func TestTickStrictlyIncreasing(t *testing.T) {
	var clk Clock
	prev := clk.Tick()
	for i := 0; i < 100; i++ {
		next := clk.Tick()
		if next <= prev {
			t.Fatalf("Tick() = %d after %d, want strictly increasing", next, prev)
		}
		prev = next
	}
}

func TestObserveAhead(t *testing.T) {
	var clk Clock
	if got := clk.Observe(41); got != 42 {
		t.Fatalf("Observe(41) = %d, want 42", got)
	}
}

func TestObserveBehind(t *testing.T) {
	var clk Clock
	clk.Observe(10)
	// Remote clock lags: local value still advances.
	if got := clk.Observe(3); got != 12 {
		t.Fatalf("Observe(3) = %d, want 12", got)
	}
}

func TestObserveExceedsBothInputs(t *testing.T) {
	var clk Clock
	clk.Observe(5)
	old := clk.Time()
	got := clk.Observe(old)
	if got <= old {
		t.Fatalf("Observe(%d) = %d, want > %d", old, got, old)
	}
}

func TestObserveZeroActsLikeTick(t *testing.T) {
	var clk Clock
	clk.Tick()
	clk.Tick()
	if got := clk.Observe(0); got != 3 {
		t.Fatalf("Observe(0) = %d, want 3", got)
	}
}

func TestTimeDoesNotAdvance(t *testing.T) {
	var clk Clock
	clk.Tick()
	clk.Time()
	clk.Time()
	if got := clk.Time(); got != 1 {
		t.Fatalf("Time() = %d, want 1", got)
	}
}

func TestConcurrentTicksAreUnique(t *testing.T) {
	var clk Clock
	const workers = 8
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[uint64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := clk.Tick()
				mu.Lock()
				if seen[v] {
					mu.Unlock()
					t.Errorf("Tick() returned duplicate value %d", v)
					return
				}
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if got := clk.Time(); got != workers*perWorker {
		t.Fatalf("Time() = %d after %d ticks", got, workers*perWorker)
	}
}
