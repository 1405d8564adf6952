package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, doctor_id, assigned_to, patient_id, title, description, priority, due_date, status, completed_at, created_at, updated_at)
		VALUES (:id, :doctor_id, :assigned_to, :patient_id, :title, :description, :priority, :due_date, :status, :completed_at, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE tasks
		SET title = :title, description = :description, priority = :priority, due_date = :due_date,
		    status = :status, completed_at = :completed_at, updated_at = :updated_at
		WHERE id = :id`, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *taskRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Task, error) {
	tasks := []*model.Task{}
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks WHERE doctor_id = $1
		ORDER BY due_date, created_at`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*model.Task, error) {
	tasks := []*model.Task{}
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks WHERE assigned_to = $1
		ORDER BY due_date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
