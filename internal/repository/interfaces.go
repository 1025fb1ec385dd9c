package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/appointment"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/notification"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetDoctors(ctx context.Context) ([]user.User, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *appointment.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (appointment.Appointment, error)
	Update(ctx context.Context, a appointment.Appointment) error

	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error)
	GetByDoctor(ctx context.Context, doctorID uuid.UUID) ([]appointment.Appointment, error)

	// FindActiveBySlot returns the pending/approved appointment holding the
	// slot, or ErrNotFound when the slot is free.
	FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (appointment.Appointment, error)
	// BookedSlots returns the slot labels held by pending/approved
	// appointments for the doctor on the given day.
	BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
