package events

import (
	"context"
	"time"
)

type EventType string

// Appointment lifecycle events, one per committed state transition.
const (
	EventAppointmentBooked    EventType = "APPOINTMENT_BOOKED"
	EventAppointmentApproved  EventType = "APPOINTMENT_APPROVED"
	EventAppointmentRejected  EventType = "APPOINTMENT_REJECTED"
	EventAppointmentCancelled EventType = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted EventType = "APPOINTMENT_COMPLETED"
)

// AppointmentTypes lists every lifecycle event type in publish order of the
// state machine. Consumers that want all appointment traffic subscribe to
// each entry.
var AppointmentTypes = []EventType{
	EventAppointmentBooked,
	EventAppointmentApproved,
	EventAppointmentRejected,
	EventAppointmentCancelled,
	EventAppointmentCompleted,
}

// AppointmentPayload is a snapshot of the appointment's identifying and
// scheduling fields at publish time, not a live reference. Subscribers
// must treat it as read-only.
type AppointmentPayload struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	DoctorID      string    `json:"doctorId"`
	PatientName   string    `json:"patientName"`
	DoctorName    string    `json:"doctorName"`
	Date          time.Time `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
}

// Event is an immutable record of a committed appointment-state change.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   AppointmentPayload `json:"payload"`
}

type Handler func(ctx context.Context, event Event) error

// Publisher is the side of the bus the lifecycle engine sees.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, payload AppointmentPayload)
}

// Bus routes typed events to independently registered handlers. Subscribe
// returns an unsubscribe capability. The in-process implementation is
// swappable for a distributed broker without changing publisher code.
type Bus interface {
	Publisher
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())
}
