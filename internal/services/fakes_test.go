package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/appointment"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/notification"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

// fakeAppointmentRepo mimics the store including the active-slot unique
// index, so the concurrency behavior of CreateAppointment is observable.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]appointment.Appointment
	failBooked   error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]appointment.Appointment)}
}

func slotActive(a appointment.Appointment) bool {
	return a.Status == appointment.StatusPending || a.Status == appointment.StatusApproved
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appointments {
		if slotActive(existing) && existing.DoctorID == a.DoctorID &&
			existing.Date.Equal(a.Date) && existing.TimeSlot == a.TimeSlot {
			return healthcare_errors.ErrSlotTaken
		}
	}
	r.appointments[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return appointment.Appointment{}, healthcare_errors.ErrNotFound
	}
	return a, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[a.ID]; !ok {
		return healthcare_errors.ErrNotFound
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeAppointmentRepo) GetByDoctor(ctx context.Context, doctorID uuid.UUID) ([]appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if slotActive(a) && a.DoctorID == doctorID && a.Date.Equal(date) && a.TimeSlot == timeSlot {
			return a, nil
		}
	}
	return appointment.Appointment{}, healthcare_errors.ErrNotFound
}

func (r *fakeAppointmentRepo) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failBooked != nil {
		return nil, r.failBooked
	}
	var out []string
	for _, a := range r.appointments {
		if slotActive(a) && a.DoctorID == doctorID && a.Date.Equal(date) {
			out = append(out, a.TimeSlot)
		}
	}
	return out, nil
}

// recordingPublisher captures published events synchronously.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType events.EventType, payload events.AppointmentPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events.Event{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *recordingPublisher) ofType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.all() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []notification.Notification
	failCreate    error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if r.notifications[i].UserID == userID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return r.notifications[i], nil
		}
	}
	return notification.Notification{}, healthcare_errors.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return healthcare_errors.ErrAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, healthcare_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, healthcare_errors.ErrNotFound
}

func (r *fakeUserRepo) GetDoctors(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.users {
		if u.Role == user.RoleDoctor {
			out = append(out, u)
		}
	}
	return out, nil
}
