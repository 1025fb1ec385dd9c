package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

func testPayload() AppointmentPayload {
	return AppointmentPayload{
		AppointmentID: "a1",
		PatientID:     "p1",
		DoctorID:      "d1",
		PatientName:   "Pat",
		DoctorName:    "Doc",
		Date:          time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "09:00 AM",
		Status:        "pending",
	}
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
			count.Add(1)
			return nil
		})
	}

	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Drain()

	assert.Equal(t, int32(3), count.Load())
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	var booked, approved atomic.Int32
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		booked.Add(1)
		return nil
	})
	bus.Subscribe(EventAppointmentApproved, func(ctx context.Context, e Event) error {
		approved.Add(1)
		return nil
	})

	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Drain()

	assert.Equal(t, int32(1), booked.Load())
	assert.Equal(t, int32(0), approved.Load())
}

func TestHandlerFailureDoesNotAffectOthers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	var delivered atomic.Int32
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		panic("boom")
	})
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		return assert.AnError
	})
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		delivered.Add(1)
		return nil
	})

	// Must not panic the publisher.
	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Drain()

	assert.Equal(t, int32(1), delivered.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	var kept, removed atomic.Int32
	unsubscribe := bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		removed.Add(1)
		return nil
	})
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		kept.Add(1)
		return nil
	})

	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Drain()

	unsubscribe()
	// Second call is a no-op.
	unsubscribe()

	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Drain()

	assert.Equal(t, int32(1), removed.Load())
	assert.Equal(t, int32(2), kept.Load())
}

func TestPublishStampsEvent(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	done := make(chan Event, 1)
	bus.Subscribe(EventAppointmentApproved, func(ctx context.Context, e Event) error {
		done <- e
		return nil
	})

	before := time.Now().UTC()
	bus.Publish(context.Background(), EventAppointmentApproved, testPayload())
	bus.Drain()

	event := <-done
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventAppointmentApproved, event.Type)
	assert.False(t, event.Timestamp.Before(before))
	assert.Equal(t, "a1", event.Payload.AppointmentID)
}

func TestEventLogRecordsAllPublishes(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	// Events are logged even with no subscribers.
	bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
	bus.Publish(context.Background(), EventAppointmentCancelled, testPayload())
	bus.Drain()

	log := bus.EventLog()
	require.Len(t, log, 2)
	assert.Equal(t, EventAppointmentBooked, log[0].Type)
	assert.Equal(t, EventAppointmentCancelled, log[1].Type)
	assert.NotEqual(t, log[0].ID, log[1].ID)
}

func TestHandlerOutlivesCancelledRequestContext(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	done := make(chan error, 1)
	bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
		done <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, EventAppointmentBooked, testPayload())
	bus.Drain()

	assert.NoError(t, <-done)
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsubscribe := bus.Subscribe(EventAppointmentBooked, func(ctx context.Context, e Event) error {
				count.Add(1)
				return nil
			})
			defer unsubscribe()
		}()
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), EventAppointmentBooked, testPayload())
		}()
	}
	wg.Wait()
	bus.Drain()

	assert.Len(t, bus.EventLog(), 10)
}
