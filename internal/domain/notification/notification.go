package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAppointmentBooked    Type = "appointment_booked"
	TypeAppointmentApproved  Type = "appointment_approved"
	TypeAppointmentRejected  Type = "appointment_rejected"
	TypeAppointmentCancelled Type = "appointment_cancelled"
	TypeAppointmentCompleted Type = "appointment_completed"
)

// Notification is a per-recipient record created by the dispatcher in
// response to an appointment event. Title and message are pre-rendered;
// metadata carries denormalized context for UI display.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Read      bool
	Metadata  map[string]string
	CreatedAt time.Time
}
