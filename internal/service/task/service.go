package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/internal/workflow"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service manages doctor-created tasks worked by nurses and lab technicians.
type Service struct {
	repo  repository.TaskRepository
	users repository.UserRepository
	clock func() time.Time
}

func NewService(repo repository.TaskRepository, users repository.UserRepository) *Service {
	return &Service{repo: repo, users: users, clock: time.Now}
}

// Create opens a new pending task. The assignee must be a nurse or lab
// technician.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreateTaskRequest) (*model.Task, error) {
	if !req.Priority.Valid() {
		return nil, apperrors.Validation("priority", "must be low, medium or high")
	}

	assignee, err := s.users.Get(ctx, req.AssignedTo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("assignee", err)
		}
		return nil, apperrors.Internal(err)
	}
	if assignee.Role != model.RoleNurse && assignee.Role != model.RoleLabTech {
		return nil, apperrors.Validation("assigned_to", "tasks can only be assigned to nurses or lab technicians")
	}

	task := &model.Task{
		Base:        model.NewBase(),
		DoctorID:    doctorID,
		AssignedTo:  req.AssignedTo,
		PatientID:   req.PatientID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Status:      model.TaskStatusPending,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperrors.Internal(err)
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("task", err)
		}
		return nil, apperrors.Internal(err)
	}
	return task, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Task, error) {
	tasks, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tasks, nil
}

func (s *Service) ListForAssignee(ctx context.Context, userID uuid.UUID) ([]*model.Task, error) {
	tasks, err := s.repo.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tasks, nil
}

// AdvanceByAssignee moves a task forward on behalf of its assignee. Assignees
// may start or complete a task; cancellation is the owning doctor's call.
func (s *Service) AdvanceByAssignee(ctx context.Context, userID, id uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	if status == model.TaskStatusCancelled {
		return nil, apperrors.Authorization("only the owning doctor can cancel a task")
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.AssignedTo != userID {
		return nil, apperrors.Authorization("task is assigned to someone else")
	}
	return s.transition(ctx, task, status)
}

// AdvanceByDoctor lets the owning doctor apply any declared transition,
// including cancellation.
func (s *Service) AdvanceByDoctor(ctx context.Context, doctorID, id uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.DoctorID != doctorID {
		return nil, apperrors.Authorization("task belongs to another doctor")
	}
	return s.transition(ctx, task, status)
}

func (s *Service) transition(ctx context.Context, task *model.Task, status model.TaskStatus) (*model.Task, error) {
	if !workflow.Task.Can(string(task.Status), string(status)) {
		return nil, apperrors.IllegalTransition("task", string(task.Status), string(status))
	}

	now := s.clock()
	task.Status = status
	if status == model.TaskStatusCompleted {
		task.CompletedAt = &now
	}
	task.UpdatedAt = now
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, apperrors.Internal(err)
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, doctorID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("task", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
