package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type WorkerPool struct {
	taskQueue   chan Task
	wg          sync.WaitGroup
	isClosing   atomic.Bool // thread-safe value
	taskTimeout time.Duration
}

func NewWorkerPool(size int, queueSize int, taskTimeout time.Duration) *WorkerPool {
	wp := &WorkerPool{
		taskQueue:   make(chan Task, queueSize),
		taskTimeout: taskTimeout,
	}

	// Start the workers
	for i := 0; i < size; i++ {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for task := range wp.taskQueue {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), wp.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("worker task panicked")
		}
	}()

	if err := task(ctx); err != nil { // run task
		log.Warn().Err(err).Msg("worker task failed")
	}
}

// Submit queues t without blocking. It reports false when the task was dropped.
func (wp *WorkerPool) Submit(t Task) bool {
	if wp.isClosing.Load() {
		log.Warn().Msg("task submitted during shutdown, dropping")
		return false
	}
	select {
	case wp.taskQueue <- t: // send task to worker pool
		return true
	default:
		log.Warn().Msg("task queue full, dropping task")
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	if wp.isClosing.Swap(true) {
		return
	}
	close(wp.taskQueue) // Stop accepting new tasks
	wp.wg.Wait()        // Wait for all active workers to finish tasks
}
