package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/notification"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

func payloadFor(patientID, doctorID uuid.UUID) events.AppointmentPayload {
	return events.AppointmentPayload{
		AppointmentID: uuid.NewString(),
		PatientID:     patientID.String(),
		DoctorID:      doctorID.String(),
		PatientName:   "Alice Smith",
		DoctorName:    "Sarah Johnson",
		Date:          time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "09:00 AM",
		Status:        "pending",
	}
}

func newDispatcherOnBus(t *testing.T) (*events.InMemoryBus, *fakeNotificationRepo) {
	t.Helper()
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, logger.NewNop())
	bus := events.NewInMemoryBus(logger.NewNop())
	stop := service.Start(bus)
	t.Cleanup(stop)
	return bus, repo
}

func TestBookedEventNotifiesDoctor(t *testing.T) {
	bus, repo := newDispatcherOnBus(t)
	patientID, doctorID := uuid.New(), uuid.New()

	bus.Publish(context.Background(), events.EventAppointmentBooked, payloadFor(patientID, doctorID))
	bus.Drain()

	assert.Empty(t, repo.forUser(patientID))
	got := repo.forUser(doctorID)
	require.Len(t, got, 1)
	assert.Equal(t, notification.TypeAppointmentBooked, got[0].Type)
	assert.Equal(t, "New Appointment Request", got[0].Title)
	assert.Equal(t, "Alice Smith has requested an appointment on Mon, Sep 14 at 09:00 AM", got[0].Message)
	assert.False(t, got[0].Read)
	assert.Equal(t, "Alice Smith", got[0].Metadata["patientName"])
	assert.Equal(t, "2026-09-14", got[0].Metadata["date"])
}

func TestApprovedEventNotifiesPatient(t *testing.T) {
	bus, repo := newDispatcherOnBus(t)
	patientID, doctorID := uuid.New(), uuid.New()

	bus.Publish(context.Background(), events.EventAppointmentApproved, payloadFor(patientID, doctorID))
	bus.Drain()

	assert.Empty(t, repo.forUser(doctorID))
	got := repo.forUser(patientID)
	require.Len(t, got, 1)
	assert.Equal(t, notification.TypeAppointmentApproved, got[0].Type)
	assert.Equal(t, "Appointment Approved!", got[0].Title)
	assert.Equal(t, "Your appointment with Dr. Sarah Johnson on Mon, Sep 14 at 09:00 AM has been approved", got[0].Message)
}

func TestRejectedEventNotifiesPatient(t *testing.T) {
	bus, repo := newDispatcherOnBus(t)
	patientID, doctorID := uuid.New(), uuid.New()

	bus.Publish(context.Background(), events.EventAppointmentRejected, payloadFor(patientID, doctorID))
	bus.Drain()

	got := repo.forUser(patientID)
	require.Len(t, got, 1)
	assert.Equal(t, "Appointment Rejected", got[0].Title)
	assert.Equal(t, "Your appointment request with Dr. Sarah Johnson on Mon, Sep 14 at 09:00 AM was not approved", got[0].Message)
}

func TestCancelledEventNotifiesBothParties(t *testing.T) {
	bus, repo := newDispatcherOnBus(t)
	patientID, doctorID := uuid.New(), uuid.New()

	bus.Publish(context.Background(), events.EventAppointmentCancelled, payloadFor(patientID, doctorID))
	bus.Drain()

	patientSide := repo.forUser(patientID)
	require.Len(t, patientSide, 1)
	assert.Equal(t, "Appointment Cancelled", patientSide[0].Title)
	assert.Equal(t, "Your appointment with Dr. Sarah Johnson on Mon, Sep 14 at 09:00 AM has been cancelled", patientSide[0].Message)

	doctorSide := repo.forUser(doctorID)
	require.Len(t, doctorSide, 1)
	assert.Equal(t, "Appointment Cancelled", doctorSide[0].Title)
	assert.Equal(t, "Appointment with Alice Smith on Mon, Sep 14 at 09:00 AM was cancelled", doctorSide[0].Message)
}

func TestCompletedEventNotifiesPatient(t *testing.T) {
	bus, repo := newDispatcherOnBus(t)
	patientID, doctorID := uuid.New(), uuid.New()

	bus.Publish(context.Background(), events.EventAppointmentCompleted, payloadFor(patientID, doctorID))
	bus.Drain()

	got := repo.forUser(patientID)
	require.Len(t, got, 1)
	assert.Equal(t, "Appointment Completed", got[0].Title)
	assert.Equal(t, "Your appointment with Dr. Sarah Johnson has been completed. Thank you!", got[0].Message)
}

func TestStopRemovesSubscriptions(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, logger.NewNop())
	bus := events.NewInMemoryBus(logger.NewNop())
	stop := service.Start(bus)
	stop()

	bus.Publish(context.Background(), events.EventAppointmentBooked, payloadFor(uuid.New(), uuid.New()))
	bus.Drain()

	assert.Empty(t, repo.notifications)
}

func TestGetUserNotifications(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, logger.NewNop())
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &notification.Notification{
			ID:     uuid.New(),
			UserID: userID,
			Type:   notification.TypeAppointmentBooked,
			Title:  "New Appointment Request",
		}))
	}
	// Someone else's notification stays invisible.
	require.NoError(t, repo.Create(context.Background(), &notification.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
	}))

	list, err := service.GetUserNotifications(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)
	assert.Equal(t, int64(3), list.UnreadCount)

	limited, err := service.GetUserNotifications(context.Background(), userID, 2)
	require.NoError(t, err)
	assert.Len(t, limited.Notifications, 2)
}

func TestMarkAsRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, logger.NewNop())
	userID := uuid.New()
	id := uuid.New()

	require.NoError(t, repo.Create(context.Background(), &notification.Notification{ID: id, UserID: userID}))

	n, err := service.MarkAsRead(context.Background(), id, userID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	// Foreign user cannot touch it.
	_, err = service.MarkAsRead(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, healthcare_errors.ErrNotFound)

	_, err = service.MarkAsRead(context.Background(), uuid.New(), userID)
	assert.ErrorIs(t, err, healthcare_errors.ErrNotFound)
}

func TestMarkAllAsReadScopedToUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, logger.NewNop())
	userID, otherID := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(context.Background(), &notification.Notification{ID: uuid.New(), UserID: userID}))
	require.NoError(t, repo.Create(context.Background(), &notification.Notification{ID: uuid.New(), UserID: userID}))
	require.NoError(t, repo.Create(context.Background(), &notification.Notification{ID: uuid.New(), UserID: otherID}))

	require.NoError(t, service.MarkAllAsRead(context.Background(), userID))

	list, err := service.GetUserNotifications(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.UnreadCount)

	otherList, err := service.GetUserNotifications(context.Background(), otherID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherList.UnreadCount)
}
