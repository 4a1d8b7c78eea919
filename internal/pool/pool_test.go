package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// MockCounter returns len(login) as the follower count
type MockCounter struct {
	delay   time.Duration
	err     error
	counter int32

	inFlight    int32
	maxInFlight int32
}

func (m *MockCounter) FollowerCount(ctx context.Context, login string) (int, int, error) {
	atomic.AddInt32(&m.counter, 1)
	cur := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		prev := atomic.LoadInt32(&m.maxInFlight)
		if cur <= prev || atomic.CompareAndSwapInt32(&m.maxInFlight, prev, cur) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return 0, 500, m.err
	}
	return len(login), 200, nil
}

func (m *MockCounter) Calls() int {
	return int(atomic.LoadInt32(&m.counter))
}

func runPool(t *testing.T, p *WorkerPool, logins []string) []LookupResult {
	t.Helper()
	p.Start()

	var results []LookupResult
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range p.Results() {
			results = append(results, result)
		}
	}()

	for i, login := range logins {
		if err := p.Submit(LookupJob{Index: i, Login: login}); err != nil {
			t.Errorf("Failed to submit job %d: %v", i, err)
		}
	}

	p.Stop()
	wg.Wait()
	return results
}

func TestWorkerPoolBasicFunctionality(t *testing.T) {
	mock := &MockCounter{delay: 5 * time.Millisecond}
	p := NewWorkerPool(context.Background(), 3, mock, nil)

	logins := make([]string, 10)
	for i := range logins {
		logins[i] = fmt.Sprintf("user%d", i)
	}

	results := runPool(t, p, logins)

	if len(results) != len(logins) {
		t.Fatalf("Expected %d results, got %d", len(logins), len(results))
	}

	seen := make(map[int]bool)
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("Unexpected error for %s: %v", r.Job.Login, r.Error)
		}
		if r.Followers != len(r.Job.Login) {
			t.Errorf("Expected %d followers for %s, got %d", len(r.Job.Login), r.Job.Login, r.Followers)
		}
		if logins[r.Job.Index] != r.Job.Login {
			t.Errorf("Result index %d does not match login %s", r.Job.Index, r.Job.Login)
		}
		seen[r.Job.Index] = true
	}
	if len(seen) != len(logins) {
		t.Errorf("Expected every index exactly once, got %d distinct", len(seen))
	}

	if mock.Calls() != len(logins) {
		t.Errorf("Expected %d lookups, got %d", len(logins), mock.Calls())
	}
}

func TestWorkerPoolWithErrors(t *testing.T) {
	mock := &MockCounter{err: fmt.Errorf("server error")}
	p := NewWorkerPool(context.Background(), 2, mock, nil)

	results := runPool(t, p, []string{"a", "b", "c", "d", "e"})

	if len(results) != 5 {
		t.Errorf("Expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Error == nil {
			t.Error("Expected error in result")
		}
		if r.Status != 500 {
			t.Errorf("Expected status 500, got %d", r.Status)
		}
	}
}

func TestWorkerPoolBoundedConcurrency(t *testing.T) {
	mock := &MockCounter{delay: 20 * time.Millisecond}
	p := NewWorkerPool(context.Background(), 3, mock, nil)

	logins := make([]string, 12)
	for i := range logins {
		logins[i] = fmt.Sprintf("u%d", i)
	}

	runPool(t, p, logins)

	if got := atomic.LoadInt32(&mock.maxInFlight); got > 3 {
		t.Errorf("Expected at most 3 concurrent lookups, saw %d", got)
	}
	if got := atomic.LoadInt32(&mock.maxInFlight); got < 2 {
		t.Errorf("Expected lookups to overlap, max in flight was %d", got)
	}
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &MockCounter{}
	p := NewWorkerPool(ctx, 1, mock, nil)
	cancel()

	// the queue has room, so fill it before Submit has to block on ctx
	for i := 0; i < cap(p.jobQueue); i++ {
		p.jobQueue <- LookupJob{Index: i}
	}

	if err := p.Submit(LookupJob{Login: "late"}); err == nil {
		t.Error("Expected Submit to fail once the pool context is cancelled")
	}
}

func TestNewWorkerPoolMinimumOneWorker(t *testing.T) {
	p := NewWorkerPool(context.Background(), 0, &MockCounter{}, nil)
	if p.numWorkers != 1 {
		t.Errorf("Expected 1 worker, got %d", p.numWorkers)
	}
}
