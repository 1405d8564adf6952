package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type appointmentRepository struct {
	*BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// CreateScheduled inserts a new scheduled appointment. The slot re-check and
// the insert run in one transaction under the doctor lock, and the partial
// unique index on scheduled (doctor_id, appointment_date, appointment_time)
// backstops the check, so two concurrent bookings for the same slot cannot
// both succeed.
func (r *appointmentRepository) CreateScheduled(ctx context.Context, appointment *model.Appointment) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockDoctor(ctx, tx, appointment.DoctorID); err != nil {
			return err
		}

		var existing uuid.UUID
		err := tx.GetContext(ctx, &existing, `
			SELECT id FROM appointments
			WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3
			  AND status = 'scheduled'
			FOR UPDATE`,
			appointment.DoctorID, appointment.Date, appointment.Time)
		if err == nil {
			return repository.ErrSlotTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check slot: %w", err)
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, reason, status, notes, created_at, updated_at)
			VALUES (:id, :patient_id, :doctor_id, :appointment_date, :appointment_time, :reason, :status, :notes, :created_at, :updated_at)`,
			appointment)
		if err != nil {
			if isUniqueViolation(err, "") {
				return repository.ErrSlotTaken
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, `SELECT * FROM appointments WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE appointments
		SET status = :status, notes = :notes, updated_at = :updated_at
		WHERE id = :id`, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.DateFrom.IsZero() {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}
	if !filters.DateTo.IsZero() {
		query += fmt.Sprintf(" AND appointment_date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}
	query += " ORDER BY appointment_date, appointment_time"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// HasHistory reports whether the patient has ever had an appointment with the
// doctor, in any status.
func (r *appointmentRepository) HasHistory(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND patient_id = $2`, doctorID, patientID)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment history: %w", err)
	}
	return count > 0, nil
}
