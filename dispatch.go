package gotimer

//go:generate mockgen -destination internal/testutil/dispatchmock/dispatchmock.go -package dispatchmock github.com/ghettovoice/gotimer Dispatcher

import (
	"log/slog"
	"sync"

	"github.com/ghettovoice/gotimer/log"
)

// Dispatcher accepts a fired timer's task and executes it asynchronously on
// the host's own execution context. Dispatch is a fire-and-forget handoff:
// it must not block and must not run the task inline, the scheduler loop
// never waits for a callback to complete.
type Dispatcher interface {
	Dispatch(task Task)
}

// DispatcherFunc adapts a function to the [Dispatcher] interface.
// The function inherits the Dispatcher contract: enqueue, don't execute.
type DispatcherFunc func(task Task)

func (f DispatcherFunc) Dispatch(task Task) { f(task) }

type goDispatcher struct{}

func (goDispatcher) Dispatch(task Task) { go task.Run() }

var defDispatcher Dispatcher = goDispatcher{}

// DefaultDispatcher returns the default dispatcher, which runs every task
// in its own goroutine the way time.AfterFunc does.
func DefaultDispatcher() Dispatcher { return defDispatcher }

// QueueOptions are the options for a [Queue].
type QueueOptions struct {
	// Logger is the logger.
	// If nil, the [log.Default] is used.
	Logger *slog.Logger
}

func (o *QueueOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Queue is a [Dispatcher] backed by an unbounded FIFO buffer and a single
// worker goroutine that runs tasks in dispatch order. Dispatch never blocks
// regardless of how far the worker has fallen behind.
type Queue struct {
	log *slog.Logger

	mu  sync.Mutex
	buf []Task

	notify    chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a [Queue] and starts its worker goroutine.
// Options are optional, default options are used if nil (see [QueueOptions]).
func NewQueue(opts *QueueOptions) *Queue {
	q := &Queue{
		log:    opts.log(),
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go q.work()
	return q
}

// Dispatch appends the task to the buffer and nudges the worker.
// Tasks dispatched after Close are dropped.
func (q *Queue) Dispatch(task Task) {
	// The stop check and the append share the mutex with the worker's
	// drain, so a task appended before the final drain is always run and
	// a task arriving after it is always dropped, never stranded.
	q.mu.Lock()
	select {
	case <-q.stop:
		q.mu.Unlock()
		q.log.Debug("task dropped, queue closed")
		return
	default:
	}
	q.buf = append(q.buf, task)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of buffered tasks not yet handed to the worker.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Close stops the worker after it finishes the tasks already buffered.
// It is safe to call multiple times.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		close(q.stop)
		<-q.done
	})
	return nil
}

func (q *Queue) work() {
	defer close(q.done)

	for {
		select {
		case <-q.stop:
			q.drain()
			return
		case <-q.notify:
			q.drain()
		}
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.buf) == 0 {
			q.mu.Unlock()
			return
		}
		tasks := q.buf
		q.buf = nil
		q.mu.Unlock()

		for _, task := range tasks {
			task.Run()
		}
	}
}
