package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type assignmentRepository struct {
	*BaseRepository
}

func NewAssignmentRepository(db *sqlx.DB) repository.AssignmentRepository {
	return &assignmentRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a nurse assignment after checking, in the same transaction,
// that the nurse has no other active assignment.
func (r *assignmentRepository) Create(ctx context.Context, assignment *model.NurseAssignment) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM nurse_assignments
			WHERE nurse_id = $1 AND is_active = true`, assignment.NurseID)
		if err != nil {
			return fmt.Errorf("failed to check active assignment: %w", err)
		}
		if count > 0 {
			return repository.ErrDuplicate
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO nurse_assignments (id, doctor_id, nurse_id, start_date, end_date, is_active, created_at, updated_at)
			VALUES (:id, :doctor_id, :nurse_id, :start_date, :end_date, :is_active, :created_at, :updated_at)`,
			assignment)
		if err != nil {
			if isUniqueViolation(err, "") {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
}

func (r *assignmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.NurseAssignment, error) {
	var assignment model.NurseAssignment
	err := r.db.GetContext(ctx, &assignment, `SELECT * FROM nurse_assignments WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.NurseAssignment) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE nurse_assignments
		SET end_date = :end_date, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`, assignment)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.NurseAssignment, error) {
	assignments := []*model.NurseAssignment{}
	err := r.db.SelectContext(ctx, &assignments, `
		SELECT * FROM nurse_assignments WHERE doctor_id = $1
		ORDER BY created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) GetActiveByNurse(ctx context.Context, nurseID uuid.UUID) (*model.NurseAssignment, error) {
	var assignment model.NurseAssignment
	err := r.db.GetContext(ctx, &assignment, `
		SELECT * FROM nurse_assignments
		WHERE nurse_id = $1 AND is_active = true
		ORDER BY start_date DESC
		LIMIT 1`, nurseID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &assignment, nil
}
