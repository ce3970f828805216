// pkg/event/event.go
// Package event provides a publish-subscribe bus for job lifecycle events.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/vulntor/typedjob/pkg/job"
)

// Type names a lifecycle event.
type Type string

const (
	TypeSubmitted Type = "job.submitted"
	TypeStarted   Type = "job.started"
	TypeFinished  Type = "job.finished"
)

// Event describes one transition observed by whoever drives the job.
type Event struct {
	Type  Type
	JobID job.ID
	Stage job.StageName
	Time  time.Time
	Err   error // set on TypeFinished when the work failed
}

// Handler is a function that handles an event.
type Handler func(ctx context.Context, e Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Type][]Handler
	wg          sync.WaitGroup
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(t Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], handler)
}

// SubscribeAll adds a handler for every lifecycle event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range []Type{TypeSubmitted, TypeStarted, TypeFinished} {
		b.Subscribe(t, handler)
	}
}

// Publish triggers all handlers subscribed to e.Type. Handlers run
// asynchronously; use Wait to block until they have returned.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.RLock()
	handlers := append([]Handler{}, b.subscribers[e.Type]...) // copy to avoid race
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			h(ctx, e)
		}(handler)
	}
}

// Wait blocks until every handler started by Publish has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}
