package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/appointment"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

type PostgresAppointmentRepository struct {
	db DBTX
}

func NewAppointmentRepository(db DBTX) AppointmentRepository {
	return &PostgresAppointmentRepository{db: db}
}

const appointmentColumns = `id, patient_id, doctor_id, patient_name, doctor_name, date, time_slot, status, reason, notes, created_at, updated_at`

// Create inserts a new appointment. The partial unique index on
// (doctor_id, date, time_slot) for active statuses makes the losing side
// of a concurrent double booking fail here with ErrSlotTaken.
func (r *PostgresAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (id, patient_id, doctor_id, patient_name, doctor_name, date, time_slot, status, reason, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.PatientID, a.DoctorID, a.PatientName, a.DoctorName, a.Date, a.TimeSlot, a.Status, a.Reason, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return healthcare_errors.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *PostgresAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (appointment.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

func (r *PostgresAppointmentRepository) Update(ctx context.Context, a appointment.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		a.Status, a.Notes, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return healthcare_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresAppointmentRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE patient_id = $1 ORDER BY date DESC, time_slot DESC`,
		patientID)
}

func (r *PostgresAppointmentRepository) GetByDoctor(ctx context.Context, doctorID uuid.UUID) ([]appointment.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE doctor_id = $1 ORDER BY date DESC, time_slot DESC`,
		doctorID)
}

func (r *PostgresAppointmentRepository) FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (appointment.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE doctor_id = $1 AND date = $2 AND time_slot = $3 AND status IN ($4, $5)`,
		doctorID, date, timeSlot, appointment.StatusPending, appointment.StatusApproved)
	return scanAppointment(row)
}

func (r *PostgresAppointmentRepository) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT time_slot FROM appointments
		 WHERE doctor_id = $1 AND date = $2 AND status IN ($3, $4)`,
		doctorID, date, appointment.StatusPending, appointment.StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *PostgresAppointmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]appointment.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []appointment.Appointment
	for rows.Next() {
		var a appointment.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PatientName, &a.DoctorName, &a.Date, &a.TimeSlot, &a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func scanAppointment(row *sql.Row) (appointment.Appointment, error) {
	var a appointment.Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PatientName, &a.DoctorName, &a.Date, &a.TimeSlot, &a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointment.Appointment{}, healthcare_errors.ErrNotFound
		}
		return appointment.Appointment{}, err
	}
	return a, nil
}
