package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/appointment"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/repository"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

const dateLayout = "2006-01-02"

// statusEvents maps a committed status change to the event it publishes.
var statusEvents = map[appointment.Status]events.EventType{
	appointment.StatusApproved:  events.EventAppointmentApproved,
	appointment.StatusRejected:  events.EventAppointmentRejected,
	appointment.StatusCancelled: events.EventAppointmentCancelled,
	appointment.StatusCompleted: events.EventAppointmentCompleted,
}

// AppointmentService is the lifecycle engine. It owns appointment
// creation, conflict detection and state transitions, and publishes one
// event per committed transition. Notification side effects are never
// awaited past the publish call.
type AppointmentService struct {
	repo   repository.AppointmentRepository
	bus    events.Publisher
	logger *logger.Logger
}

func NewAppointmentService(repo repository.AppointmentRepository, bus events.Publisher, l *logger.Logger) *AppointmentService {
	return &AppointmentService{
		repo:   repo,
		bus:    bus,
		logger: l,
	}
}

type CreateAppointmentInput struct {
	PatientID   uuid.UUID
	PatientName string
	DoctorID    uuid.UUID
	DoctorName  string
	Date        string
	TimeSlot    string
	Reason      string
}

type UpdateAppointmentInput struct {
	Status *appointment.Status
	Notes  *string
}

// CreateAppointment books a slot for a patient. The conflict pre-check
// gives a friendly rejection on the common path; the store's partial
// unique index closes the remaining race, so a concurrent duplicate
// insert also surfaces as ErrSlotTaken. The APPOINTMENT_BOOKED event is
// published only after the insert is durably acknowledged.
func (s *AppointmentService) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (appointment.Appointment, error) {
	date, err := validateCreate(in)
	if err != nil {
		return appointment.Appointment{}, err
	}

	if _, err := s.repo.FindActiveBySlot(ctx, in.DoctorID, date, in.TimeSlot); err == nil {
		return appointment.Appointment{}, healthcare_errors.ErrSlotTaken
	} else if !errors.Is(err, healthcare_errors.ErrNotFound) {
		return appointment.Appointment{}, fmt.Errorf("check slot conflict: %w", err)
	}

	now := time.Now().UTC()
	appt := appointment.Appointment{
		ID:          uuid.New(),
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		PatientName: in.PatientName,
		DoctorName:  in.DoctorName,
		Date:        date,
		TimeSlot:    in.TimeSlot,
		Status:      appointment.StatusPending,
		Reason:      in.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &appt); err != nil {
		if errors.Is(err, healthcare_errors.ErrSlotTaken) {
			return appointment.Appointment{}, healthcare_errors.ErrSlotTaken
		}
		return appointment.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	s.bus.Publish(ctx, events.EventAppointmentBooked, snapshot(&appt))

	return appt, nil
}

// UpdateAppointment applies a status transition and/or a notes change.
// Transitions are validated against the state machine; terminal states
// accept none. A notes-only update publishes nothing. Ownership checks
// (patient cancels own, doctor manages own) are the calling boundary's
// responsibility.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateAppointmentInput) (appointment.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return appointment.Appointment{}, err
	}

	if in.Status != nil {
		next := *in.Status
		if !next.Valid() {
			return appointment.Appointment{}, fmt.Errorf("%w: unknown status %q", healthcare_errors.ErrInvalidInput, next)
		}
		if !appt.Status.CanTransitionTo(next) {
			return appointment.Appointment{}, fmt.Errorf("%w: %s -> %s", healthcare_errors.ErrInvalidTransition, appt.Status, next)
		}
		appt.Status = next
	}
	if in.Notes != nil {
		appt.Notes = *in.Notes
	}
	appt.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, appt); err != nil {
		return appointment.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}

	if in.Status != nil {
		if eventType, ok := statusEvents[appt.Status]; ok {
			s.bus.Publish(ctx, eventType, snapshot(&appt))
		}
	}

	return appt, nil
}

func (s *AppointmentService) GetAppointmentByID(ctx context.Context, id uuid.UUID) (appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) GetPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *AppointmentService) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID) ([]appointment.Appointment, error) {
	return s.repo.GetByDoctor(ctx, doctorID)
}

// GetAvailableSlots returns the canonical slot labels not held by a
// pending or approved appointment for the doctor on that day, in
// canonical order. On a store failure it fails open and returns the full
// set; the conflict is re-validated at booking time anyway.
func (s *AppointmentService) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, dateStr string) ([]string, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedSlots(ctx, doctorID, date)
	if err != nil {
		if s.logger != nil {
			s.logger.Warnf("slot lookup failed for doctor %s, returning full set: %s", doctorID, err)
		}
		return append([]string(nil), appointment.TimeSlots...), nil
	}

	taken := make(map[string]struct{}, len(booked))
	for _, slot := range booked {
		taken[slot] = struct{}{}
	}

	available := make([]string, 0, len(appointment.TimeSlots))
	for _, slot := range appointment.TimeSlots {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available, nil
}

func validateCreate(in CreateAppointmentInput) (time.Time, error) {
	if in.Reason == "" {
		return time.Time{}, fmt.Errorf("%w: reason is required", healthcare_errors.ErrInvalidInput)
	}
	if in.TimeSlot == "" {
		return time.Time{}, fmt.Errorf("%w: time slot is required", healthcare_errors.ErrInvalidInput)
	}
	if !appointment.ValidTimeSlot(in.TimeSlot) {
		return time.Time{}, fmt.Errorf("%w: unknown time slot %q", healthcare_errors.ErrInvalidInput, in.TimeSlot)
	}
	if in.DoctorID == uuid.Nil {
		return time.Time{}, fmt.Errorf("%w: doctor is required", healthcare_errors.ErrInvalidInput)
	}
	if in.PatientID == uuid.Nil {
		return time.Time{}, fmt.Errorf("%w: patient is required", healthcare_errors.ErrInvalidInput)
	}
	return parseDate(in.Date)
}

func parseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", healthcare_errors.ErrInvalidInput)
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", healthcare_errors.ErrInvalidInput)
	}
	return date, nil
}

func snapshot(a *appointment.Appointment) events.AppointmentPayload {
	return events.AppointmentPayload{
		AppointmentID: a.ID.String(),
		PatientID:     a.PatientID.String(),
		DoctorID:      a.DoctorID.String(),
		PatientName:   a.PatientName,
		DoctorName:    a.DoctorName,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
		Status:        string(a.Status),
		Reason:        a.Reason,
	}
}
