// Package worker delivers queued season changes to observers.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// Event abstracts what the dispatcher reads off the queue.
type Event = model.Change

// Observer reacts to a persisted change. Observers run on the dispatcher
// goroutine one after another, so they should return quickly.
type Observer func(ctx context.Context, c Event)

// Queue defines how the dispatcher receives changes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

type subscription struct {
	id uint64
	fn Observer
}

// Dispatcher fans every queued change out to the subscribed observers in
// subscription order.
type Dispatcher struct {
	queue Queue
	name  string

	mu        sync.RWMutex
	observers []subscription
	nextID    uint64
	delivered uint64

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a dispatcher reading from queue.
func NewDispatcher(queue Queue, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue: queue,
		name:  "dispatcher",
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named(d.name)
	}
	return d
}

// Subscribe registers fn and returns a func that removes it again.
func (d *Dispatcher) Subscribe(fn Observer) (unsubscribe func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.observers = append(d.observers, subscription{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, s := range d.observers {
				if s.id == id {
					d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Observers returns the number of registered observers.
func (d *Dispatcher) Observers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Delivered returns how many changes have been dispatched.
func (d *Dispatcher) Delivered() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.delivered
}

// Start runs the dispatch loop in a new goroutine. Later calls are no-ops.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() { go d.Run(ctx) })
}

// Run dispatches changes until ctx is cancelled or the queue is closed and
// drained.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	changes := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			d.dispatch(ctx, c)
		}
	}
}

// Shutdown closes the queue when it supports closing and waits for the
// remaining changes to be delivered.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() {
		if closer, ok := d.queue.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				d.logger.Error(ctx, "error closing queue", logger.Error(err))
			}
		}
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, c Event) {
	d.mu.Lock()
	subs := make([]subscription, len(d.observers))
	copy(subs, d.observers)
	d.delivered++
	d.mu.Unlock()

	for _, s := range subs {
		d.call(ctx, s.fn, c)
	}
}

func (d *Dispatcher) call(ctx context.Context, fn Observer, c Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordObserverPanic()
			d.logger.Error(ctx, "observer panicked",
				logger.String("change_id", c.ID),
				logger.String("kind", string(c.Kind)),
				logger.Any("panic", r),
			)
		}
	}()
	fn(ctx, c)
}
