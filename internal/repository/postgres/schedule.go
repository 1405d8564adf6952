package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type scheduleRepository struct {
	*BaseRepository
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{BaseRepository: NewBaseRepository(db)}
}

// CreateSchedule inserts a weekly window after re-checking, under the doctor
// lock, that it does not overlap an existing window on the same weekday.
// Windows sharing only an endpoint do not overlap.
func (r *scheduleRepository) CreateSchedule(ctx context.Context, schedule *model.WeeklySchedule) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockDoctor(ctx, tx, schedule.DoctorID); err != nil {
			return err
		}

		var count int
		err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM weekly_schedules
			WHERE doctor_id = $1 AND day_of_week = $2
			  AND start_time < $4 AND $3 < end_time`,
			schedule.DoctorID, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime)
		if err != nil {
			return fmt.Errorf("failed to check schedule overlap: %w", err)
		}
		if count > 0 {
			return repository.ErrOverlap
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO weekly_schedules (id, doctor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at)
			VALUES (:id, :doctor_id, :day_of_week, :start_time, :end_time, :is_available, :created_at, :updated_at)`,
			schedule)
		if err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		return nil
	})
}

func (r *scheduleRepository) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.WeeklySchedule, error) {
	schedules := []*model.WeeklySchedule{}
	err := r.db.SelectContext(ctx, &schedules, `
		SELECT * FROM weekly_schedules WHERE doctor_id = $1
		ORDER BY day_of_week, start_time`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek string) ([]*model.WeeklySchedule, error) {
	schedules := []*model.WeeklySchedule{}
	err := r.db.SelectContext(ctx, &schedules, `
		SELECT * FROM weekly_schedules
		WHERE doctor_id = $1 AND day_of_week = $2
		ORDER BY start_time`, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules for day: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) DeleteSchedule(ctx context.Context, id, doctorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_schedules WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateDateSlot inserts a date-specific window with the same guarded overlap
// check, scoped to slots on the same date.
func (r *scheduleRepository) CreateDateSlot(ctx context.Context, slot *model.DateSlot) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockDoctor(ctx, tx, slot.DoctorID); err != nil {
			return err
		}

		var count int
		err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM date_slots
			WHERE doctor_id = $1 AND slot_date = $2
			  AND start_time < $4 AND $3 < end_time`,
			slot.DoctorID, slot.Date, slot.StartTime, slot.EndTime)
		if err != nil {
			return fmt.Errorf("failed to check slot overlap: %w", err)
		}
		if count > 0 {
			return repository.ErrOverlap
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO date_slots (id, doctor_id, slot_date, start_time, end_time, is_available, created_at, updated_at)
			VALUES (:id, :doctor_id, :slot_date, :start_time, :end_time, :is_available, :created_at, :updated_at)`,
			slot)
		if err != nil {
			return fmt.Errorf("failed to create date slot: %w", err)
		}
		return nil
	})
}

func (r *scheduleRepository) ListDateSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.DateSlot, error) {
	slots := []*model.DateSlot{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT * FROM date_slots
		WHERE doctor_id = $1 AND slot_date = $2
		ORDER BY start_time`, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list date slots: %w", err)
	}
	return slots, nil
}

func (r *scheduleRepository) ListUpcomingDateSlots(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*model.DateSlot, error) {
	slots := []*model.DateSlot{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT * FROM date_slots
		WHERE doctor_id = $1 AND slot_date >= $2
		ORDER BY slot_date, start_time`, doctorID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming date slots: %w", err)
	}
	return slots, nil
}

func (r *scheduleRepository) DeleteDateSlot(ctx context.Context, id, doctorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM date_slots WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete date slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) CreateLeave(ctx context.Context, leave *model.LeaveRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO leave_requests (id, doctor_id, start_date, end_date, reason, status, approved_by, created_at, updated_at)
		VALUES (:id, :doctor_id, :start_date, :end_date, :reason, :status, :approved_by, :created_at, :updated_at)`,
		leave)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetLeave(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := r.db.GetContext(ctx, &leave, `SELECT * FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &leave, nil
}

func (r *scheduleRepository) UpdateLeave(ctx context.Context, leave *model.LeaveRequest) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE leave_requests
		SET status = :status, approved_by = :approved_by, updated_at = :updated_at
		WHERE id = :id`, leave)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) DeleteLeave(ctx context.Context, id, doctorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM leave_requests WHERE id = $1 AND doctor_id = $2 AND status = 'pending'`, id, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) ListLeaves(ctx context.Context, doctorID uuid.UUID) ([]*model.LeaveRequest, error) {
	leaves := []*model.LeaveRequest{}
	err := r.db.SelectContext(ctx, &leaves, `
		SELECT * FROM leave_requests WHERE doctor_id = $1
		ORDER BY start_date DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leaves, nil
}

func (r *scheduleRepository) ListApprovedLeavesCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.LeaveRequest, error) {
	leaves := []*model.LeaveRequest{}
	err := r.db.SelectContext(ctx, &leaves, `
		SELECT * FROM leave_requests
		WHERE doctor_id = $1 AND status = 'approved'
		  AND start_date <= $2 AND end_date >= $2`, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	return leaves, nil
}

func (r *scheduleRepository) ListPendingLeaves(ctx context.Context) ([]*model.LeaveRequest, error) {
	leaves := []*model.LeaveRequest{}
	err := r.db.SelectContext(ctx, &leaves, `
		SELECT * FROM leave_requests WHERE status = 'pending'
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leaves: %w", err)
	}
	return leaves, nil
}
