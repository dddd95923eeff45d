package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

var (
	// ErrQueueFull is returned by TrySchedule when the global buffer has no free slot
	ErrQueueFull = errors.New("global buffer is full, wait for some tasks to finish or increase the buffer size")
	// ErrPoolClosed is returned when scheduling on a closed pool
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Config holds the pool dimensions
type Config struct {
	WorkerCount  int
	GlobalBuffer int
}

// Task is a unit of deferred work bound to the context of the caller that scheduled it
type Task struct {
	ctx context.Context
	run func()
}

// WorkerPool runs scheduled tasks on a fixed set of goroutines fed by one buffered queue.
// With a single worker tasks run in the order they were scheduled.
type WorkerPool struct {
	config    Config
	taskQueue chan Task
	logger    logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWorkerPool starts the workers. A WorkerCount below 1 means one worker and a
// GlobalBuffer below 1 means 10000 queued tasks.
func NewWorkerPool(config Config, logger logger.Logger) (*WorkerPool, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.GlobalBuffer < 1 {
		config.GlobalBuffer = 10000
	}

	wp := &WorkerPool{
		config:    config,
		taskQueue: make(chan Task, config.GlobalBuffer),
		logger:    logger,
	}

	wp.wg.Add(config.WorkerCount)
	for i := 0; i < config.WorkerCount; i++ {
		go wp.worker()
	}

	return wp, nil
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for t := range wp.taskQueue {
		// The caller went away before the task started: drop it.
		if t.ctx.Err() != nil {
			continue
		}
		wp.execute(t)
	}
}

func (wp *WorkerPool) execute(t Task) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error(fmt.Sprintf("task panicked: %v", r))
		}
	}()
	t.run()
}

// Schedule queues task, waiting for a free slot until ctx is done.
func (wp *WorkerPool) Schedule(ctx context.Context, task func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.taskQueue <- Task{ctx: ctx, run: task}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySchedule queues task without waiting and fails with ErrQueueFull when no slot is free.
func (wp *WorkerPool) TrySchedule(ctx context.Context, task func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.taskQueue <- Task{ctx: ctx, run: task}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued tasks that have not been picked up yet.
func (wp *WorkerPool) Pending() int {
	return len(wp.taskQueue)
}

// Close stops accepting tasks, lets the workers drain the queue and waits for them.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info("Worker pool stopped")
}
