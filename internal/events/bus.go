package events

import (
	"context"
	"sync"
	"time"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"

	"github.com/google/uuid"
)

// InMemoryBus is the in-process Bus implementation. Publish stamps the
// event, appends it to an append-only audit log and starts every
// registered handler in its own goroutine. Handlers never block each
// other or the publisher; a failing or panicking handler is logged and
// isolated.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]*subscription

	logMu    sync.Mutex
	eventLog []Event

	wg     sync.WaitGroup
	logger *logger.Logger
}

type subscription struct {
	handler Handler
}

func NewInMemoryBus(l *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[EventType][]*subscription),
		logger:   l,
	}
}

// Subscribe registers a handler for an event type and returns its
// unsubscribe func. Handlers registered for the same type are independent.
func (b *InMemoryBus) Subscribe(eventType EventType, handler Handler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[eventType]
		for i, s := range subs {
			if s == sub {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every handler currently registered for its
// type. It returns once all handler goroutines have been started; the
// publisher never observes handler results.
func (b *InMemoryBus) Publish(ctx context.Context, eventType EventType, payload AppointmentPayload) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	b.logMu.Lock()
	b.eventLog = append(b.eventLog, event)
	b.logMu.Unlock()

	b.mu.RLock()
	subs := make([]*subscription, len(b.handlers[eventType]))
	copy(subs, b.handlers[eventType])
	b.mu.RUnlock()

	if len(subs) == 0 {
		if b.logger != nil {
			b.logger.Infof("event %s published with no handlers", eventType)
		}
		return
	}

	// Handlers outlive the request that triggered the publish.
	handlerCtx := context.WithoutCancel(ctx)

	for _, sub := range subs {
		b.wg.Add(1)
		go b.run(handlerCtx, sub.handler, event)
	}
}

func (b *InMemoryBus) run(ctx context.Context, handler Handler, event Event) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Errorf("handler panic for %s: %v", event.Type, r)
		}
	}()

	if err := handler(ctx, event); err != nil && b.logger != nil {
		b.logger.Errorf("handler failed for %s: %s", event.Type, err)
	}
}

// EventLog returns a copy of the audit log.
func (b *InMemoryBus) EventLog() []Event {
	b.logMu.Lock()
	defer b.logMu.Unlock()
	out := make([]Event, len(b.eventLog))
	copy(out, b.eventLog)
	return out
}

// Drain blocks until every in-flight handler has returned. Used during
// graceful shutdown and by tests.
func (b *InMemoryBus) Drain() {
	b.wg.Wait()
}
