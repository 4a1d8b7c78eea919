package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ghbot/pkg/logger"
)

// LookupJob asks for one account's follower count. Index is the position
// of the login in the caller's input.
type LookupJob struct {
	Index int
	Login string
}

// LookupResult is the outcome of a LookupJob
type LookupResult struct {
	Job       LookupJob
	Followers int
	Status    int
	Error     error
	Duration  time.Duration
}

// FollowerCounter reads an account's follower count
type FollowerCounter interface {
	FollowerCount(ctx context.Context, login string) (followers int, status int, err error)
}

// WorkerPool runs read-only lookups on a fixed number of workers.
// Results arrive in completion order.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan LookupJob
	resultQueue chan LookupResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      FollowerCounter
	logger      logger.Logger
}

// NewWorkerPool creates a lookup pool bound to ctx
func NewWorkerPool(ctx context.Context, numWorkers int, client FollowerCounter, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan LookupJob, numWorkers*2),
		resultQueue: make(chan LookupResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting lookup pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight lookups and closes Results.
// Call it once, after the last Submit.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Lookup pool stopped")
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job LookupJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("lookup pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel lookup results are delivered on
func (wp *WorkerPool) Results() <-chan LookupResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job LookupJob, workerID int) LookupResult {
	start := time.Now()
	followers, status, err := wp.client.FollowerCount(wp.ctx, job.Login)

	result := LookupResult{
		Job:       job,
		Followers: followers,
		Status:    status,
		Error:     err,
		Duration:  time.Since(start),
	}

	wp.logger.DebugWithFields("Lookup finished", map[string]interface{}{
		"worker_id": workerID,
		"login":     job.Login,
		"status":    status,
		"duration":  result.Duration,
	})

	return result
}
