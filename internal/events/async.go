package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned when an Async publisher has no room for the event.
	ErrQueueFull       = errors.New("event queue full")
	ErrPublisherClosed = errors.New("event publisher closed")
)

// Async hands events to a background worker so a slow sink never holds up
// the request that emitted them. Events that do not fit the buffer are
// dropped and logged by the caller.
type Async struct {
	next    Publisher
	log     *zap.Logger
	timeout time.Duration

	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Publisher, size int, timeout time.Duration, log *zap.Logger) *Async {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &Async{
		next:    next,
		log:     log,
		timeout: timeout,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(_ context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrPublisherClosed
	}

	select {
	case a.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, e); err != nil {
			a.log.Warn("async event publish failed",
				zap.String("event_id", e.ID),
				zap.String("type", string(e.Type)),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queued ones to be sent.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
