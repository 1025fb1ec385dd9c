package ws

import (
	"context"
	"encoding/json"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
)

// Bridge is an independent bus subscriber that pushes appointment events
// to the affected users' open WebSocket connections. It runs alongside
// the notification dispatcher; neither knows about the other.
type Bridge struct {
	hub *Hub
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

// Start subscribes the bridge to every appointment event type and
// returns a func that removes the subscriptions.
func (b *Bridge) Start(bus events.Bus) func() {
	unsubscribes := make([]func(), 0, len(events.AppointmentTypes))
	for _, eventType := range events.AppointmentTypes {
		unsubscribes = append(unsubscribes, bus.Subscribe(eventType, b.handle))
	}
	return func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}
}

func (b *Bridge) handle(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, userID := range recipients(event) {
		b.hub.SendToUser(userID, payload)
	}
	return nil
}

// recipients mirrors the dispatcher's addressing: bookings go to the
// doctor, cancellations to both parties, everything else to the patient.
func recipients(event events.Event) []string {
	switch event.Type {
	case events.EventAppointmentBooked:
		return []string{event.Payload.DoctorID}
	case events.EventAppointmentCancelled:
		return []string{event.Payload.PatientID, event.Payload.DoctorID}
	default:
		return []string{event.Payload.PatientID}
	}
}
