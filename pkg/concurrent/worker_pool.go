package concurrent

import (
	"errors"
	"time"
)

var ErrScheduleTimeout = errors.New("worker pool: schedule timed out")

// WorkerPool runs queued tasks on a bounded set of goroutines. Used by the
// websocket server so each connection read costs a queued task instead of a
// dedicated goroutine stack.
type WorkerPool struct {
	sem  chan struct{}
	work chan func()
}

func NewWorkerPool(maxWorkers, queueSize int) *WorkerPool {
	return &WorkerPool{
		sem:  make(chan struct{}, maxWorkers),
		work: make(chan func(), queueSize),
	}
}

// Spawn starts n resident workers up to the pool limit.
func (wp *WorkerPool) Spawn(n int) {
	for i := 0; i < n; i++ {
		select {
		case wp.sem <- struct{}{}:
			go wp.worker(func() {})
		default:
			return
		}
	}
}

// Schedule queues task, growing the worker set up to the limit when the
// queue is full.
func (wp *WorkerPool) Schedule(task func()) {
	wp.schedule(task, nil)
}

// ScheduleTimeout queues task, giving up with ErrScheduleTimeout when no
// worker picks it up within timeout.
func (wp *WorkerPool) ScheduleTimeout(timeout time.Duration, task func()) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return wp.schedule(task, timer.C)
}

func (wp *WorkerPool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case wp.work <- task:
		return nil
	case wp.sem <- struct{}{}:
		go wp.worker(task)
		return nil
	}
}

func (wp *WorkerPool) worker(task func()) {
	defer func() { <-wp.sem }()

	task()
	for task := range wp.work {
		task()
	}
}

// Close stops all resident workers after the queue drains.
func (wp *WorkerPool) Close() {
	close(wp.work)
}
