package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

// registerClient adds a connection-less client straight into the hub's
// maps so tests can observe Send queues without a real socket.
func registerClient(hub *Hub, userID string) *Client {
	client := NewClient(nil, userID)
	hub.addClient(client)
	return client
}

func receive(t *testing.T, c *Client) events.Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var event events.Event
		require.NoError(t, json.Unmarshal(raw, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return events.Event{}
	}
}

func publish(bus *events.InMemoryBus, eventType events.EventType, patientID, doctorID string) {
	bus.Publish(context.Background(), eventType, events.AppointmentPayload{
		AppointmentID: uuid.NewString(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		PatientName:   "Alice Smith",
		DoctorName:    "Sarah Johnson",
		TimeSlot:      "09:00 AM",
	})
	bus.Drain()
}

func TestBridgeRoutesBookedToDoctor(t *testing.T) {
	hub := NewHub()
	patient := registerClient(hub, "p1")
	doctor := registerClient(hub, "d1")

	bus := events.NewInMemoryBus(logger.NewNop())
	stop := NewBridge(hub).Start(bus)
	defer stop()

	publish(bus, events.EventAppointmentBooked, "p1", "d1")

	event := receive(t, doctor)
	assert.Equal(t, events.EventAppointmentBooked, event.Type)
	assert.Equal(t, "Alice Smith", event.Payload.PatientName)
	assert.Empty(t, patient.Send)
}

func TestBridgeRoutesCancelledToBothParties(t *testing.T) {
	hub := NewHub()
	patient := registerClient(hub, "p1")
	doctor := registerClient(hub, "d1")

	bus := events.NewInMemoryBus(logger.NewNop())
	stop := NewBridge(hub).Start(bus)
	defer stop()

	publish(bus, events.EventAppointmentCancelled, "p1", "d1")

	assert.Equal(t, events.EventAppointmentCancelled, receive(t, patient).Type)
	assert.Equal(t, events.EventAppointmentCancelled, receive(t, doctor).Type)
}

func TestBridgeRoutesApprovedToPatientOnly(t *testing.T) {
	hub := NewHub()
	patient := registerClient(hub, "p1")
	doctor := registerClient(hub, "d1")
	other := registerClient(hub, "p2")

	bus := events.NewInMemoryBus(logger.NewNop())
	stop := NewBridge(hub).Start(bus)
	defer stop()

	publish(bus, events.EventAppointmentApproved, "p1", "d1")

	assert.Equal(t, events.EventAppointmentApproved, receive(t, patient).Type)
	assert.Empty(t, doctor.Send)
	assert.Empty(t, other.Send)
}

func TestHubFanOutToMultipleConnections(t *testing.T) {
	hub := NewHub()
	first := registerClient(hub, "p1")
	second := registerClient(hub, "p1")

	hub.SendToUser("p1", []byte(`{"hello":true}`))

	assert.Len(t, first.Send, 1)
	assert.Len(t, second.Send, 1)
	assert.Equal(t, 2, hub.ClientCount())
}
