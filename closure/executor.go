package closure

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	defaultExecutorWorkers   = 4
	defaultExecutorQueueSize = 256
)

// ErrExecutorClosed is returned by Run after Close has been called.
var ErrExecutorClosed = errors.New("closure: executor closed")

type executorOption struct {
	workers   int
	queueSize int
}

var defaultExecutorOption = executorOption{
	workers:   defaultExecutorWorkers,
	queueSize: defaultExecutorQueueSize,
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*executorOption)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) ExecutorOption {
	return func(o *executorOption) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) ExecutorOption {
	return func(o *executorOption) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// Executor is a fixed pool of background goroutines. Its goroutines are
// owned by the executor alone, never by a call stack, which makes it the
// safe place to run stream destruction handed off by the refcount layer.
type Executor struct {
	tasks  chan func()
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewExecutor starts an executor with the configured number of workers.
func NewExecutor(opts ...ExecutorOption) *Executor {
	opt := defaultExecutorOption
	for _, o := range opts {
		o(&opt)
	}

	e := &Executor{
		tasks: make(chan func(), opt.queueSize),
	}
	e.wg.Add(opt.workers)
	for i := 0; i < opt.workers; i++ {
		go e.worker(i)
	}
	return e
}

func (e *Executor) worker(id int) {
	defer e.wg.Done()
	for fn := range e.tasks {
		runTask(id, fn)
	}
}

func runTask(id int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			zap.L().Error(fmt.Sprintf("closure: executor worker %d task panic: %v, stack:\n%s", id, r, buf))
		}
	}()
	fn()
}

// Run hands fn to a worker goroutine. It blocks only when the task queue is
// full.
func (e *Executor) Run(fn func()) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}
	e.tasks <- fn
	return nil
}

// Close stops accepting tasks, runs what is already queued and waits for the
// workers to exit.
func (e *Executor) Close() {
	if e.closed.Swap(true) {
		return
	}
	close(e.tasks)
	e.wg.Wait()
}

var (
	defaultExecutor     *Executor
	defaultExecutorOnce sync.Once
)

// DefaultExecutor returns the process-wide executor, starting it on first
// use. It is never closed.
func DefaultExecutor() *Executor {
	defaultExecutorOnce.Do(func() {
		defaultExecutor = NewExecutor()
	})
	return defaultExecutor
}
