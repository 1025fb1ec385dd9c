package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/notification"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/repository"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

const defaultNotificationLimit = 20

// NotificationService is the standing consumer of appointment events. One
// handler per event type; each renders recipient-targeted title/message
// strings and persists a notification record. Handler failures stay on
// the bus side and never reach the publisher.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *logger.Logger
}

func NewNotificationService(repo repository.NotificationRepository, l *logger.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: l,
	}
}

// Start registers the five event subscriptions. Called once from the
// composition root so the bus dependency stays visible; the returned func
// removes all subscriptions.
func (s *NotificationService) Start(bus events.Bus) func() {
	unsubscribes := []func(){
		bus.Subscribe(events.EventAppointmentBooked, s.handleBooked),
		bus.Subscribe(events.EventAppointmentApproved, s.handleApproved),
		bus.Subscribe(events.EventAppointmentRejected, s.handleRejected),
		bus.Subscribe(events.EventAppointmentCancelled, s.handleCancelled),
		bus.Subscribe(events.EventAppointmentCompleted, s.handleCompleted),
	}
	return func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}
}

func (s *NotificationService) handleBooked(ctx context.Context, event events.Event) error {
	p := event.Payload
	return s.create(ctx, p.DoctorID, notification.TypeAppointmentBooked,
		"New Appointment Request",
		fmt.Sprintf("%s has requested an appointment on %s at %s", p.PatientName, formatDate(p.Date), p.TimeSlot),
		metadataFor(p, "patientName", p.PatientName))
}

func (s *NotificationService) handleApproved(ctx context.Context, event events.Event) error {
	p := event.Payload
	return s.create(ctx, p.PatientID, notification.TypeAppointmentApproved,
		"Appointment Approved!",
		fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been approved", p.DoctorName, formatDate(p.Date), p.TimeSlot),
		metadataFor(p, "doctorName", p.DoctorName))
}

func (s *NotificationService) handleRejected(ctx context.Context, event events.Event) error {
	p := event.Payload
	return s.create(ctx, p.PatientID, notification.TypeAppointmentRejected,
		"Appointment Rejected",
		fmt.Sprintf("Your appointment request with Dr. %s on %s at %s was not approved", p.DoctorName, formatDate(p.Date), p.TimeSlot),
		metadataFor(p, "doctorName", p.DoctorName))
}

// handleCancelled fans out to both parties regardless of who cancelled.
func (s *NotificationService) handleCancelled(ctx context.Context, event events.Event) error {
	p := event.Payload

	patientErr := s.create(ctx, p.PatientID, notification.TypeAppointmentCancelled,
		"Appointment Cancelled",
		fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been cancelled", p.DoctorName, formatDate(p.Date), p.TimeSlot),
		metadataFor(p, "doctorName", p.DoctorName))

	doctorErr := s.create(ctx, p.DoctorID, notification.TypeAppointmentCancelled,
		"Appointment Cancelled",
		fmt.Sprintf("Appointment with %s on %s at %s was cancelled", p.PatientName, formatDate(p.Date), p.TimeSlot),
		metadataFor(p, "patientName", p.PatientName))

	return errors.Join(patientErr, doctorErr)
}

func (s *NotificationService) handleCompleted(ctx context.Context, event events.Event) error {
	p := event.Payload
	return s.create(ctx, p.PatientID, notification.TypeAppointmentCompleted,
		"Appointment Completed",
		fmt.Sprintf("Your appointment with Dr. %s has been completed. Thank you!", p.DoctorName),
		metadataFor(p, "doctorName", p.DoctorName))
}

func (s *NotificationService) create(ctx context.Context, userID string, notifType notification.Type, title, message string, metadata map[string]string) error {
	recipient, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse recipient id: %w", err)
	}

	n := &notification.Notification{
		ID:        uuid.New(),
		UserID:    recipient,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Read:      false,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification for user %s: %w", userID, err)
	}
	return nil
}

type NotificationList struct {
	Notifications []notification.Notification
	UnreadCount   int64
}

// GetUserNotifications returns the newest notifications for a user plus
// the unread count.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int) (NotificationList, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := s.repo.GetByUser(ctx, userID, limit)
	if err != nil {
		return NotificationList{}, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return NotificationList{}, err
	}
	return NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkAsRead flips the read flag; ownership is enforced, a foreign or
// unknown notification id yields ErrNotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, healthcare_errors.ErrNotFound) {
			return notification.Notification{}, healthcare_errors.ErrNotFound
		}
		return notification.Notification{}, err
	}
	return n, nil
}

// MarkAllAsRead is a no-op when nothing is unread.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func metadataFor(p events.AppointmentPayload, nameKey, nameValue string) map[string]string {
	return map[string]string{
		"appointmentId": p.AppointmentID,
		nameKey:         nameValue,
		"date":          p.Date.Format(dateLayout),
		"timeSlot":      p.TimeSlot,
	}
}

func formatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}
