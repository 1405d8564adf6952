package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

type stubTaskRepo struct {
	repository.TaskRepository
	task    *model.Task
	created *model.Task
	updated *model.Task
}

func (s *stubTaskRepo) Create(ctx context.Context, task *model.Task) error {
	s.created = task
	return nil
}

func (s *stubTaskRepo) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	if s.task == nil {
		return nil, repository.ErrNotFound
	}
	return s.task, nil
}

func (s *stubTaskRepo) Update(ctx context.Context, task *model.Task) error {
	s.updated = task
	return nil
}

type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.user == nil {
		return nil, repository.ErrNotFound
	}
	return s.user, nil
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *stubTaskRepo, users *stubUserRepo) *Service {
	svc := NewService(repo, users)
	svc.clock = func() time.Time { return now }
	return svc
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func createReq(assignee uuid.UUID) *model.CreateTaskRequest {
	return &model.CreateTaskRequest{
		AssignedTo:  assignee,
		Title:       "draw blood",
		Description: "fasting panel for tomorrow's consult",
		Priority:    model.TaskPriorityHigh,
		DueDate:     time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	nurse := &model.User{Base: model.NewBase(), Role: model.RoleNurse}
	repo := &stubTaskRepo{}
	svc := newTestService(repo, &stubUserRepo{user: nurse})

	got, err := svc.Create(context.Background(), uuid.New(), createReq(nurse.ID))
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, got.Status)
	require.NotNil(t, repo.created)
}

func TestCreateAssigneeMustBeNurseOrLabTech(t *testing.T) {
	patient := &model.User{Base: model.NewBase(), Role: model.RolePatient}
	svc := newTestService(&stubTaskRepo{}, &stubUserRepo{user: patient})

	_, err := svc.Create(context.Background(), uuid.New(), createReq(patient.ID))
	assert.Equal(t, apperrors.ErrValidation, appErrCode(t, err))
}

func TestCreateBadPriority(t *testing.T) {
	nurse := &model.User{Base: model.NewBase(), Role: model.RoleNurse}
	svc := newTestService(&stubTaskRepo{}, &stubUserRepo{user: nurse})

	req := createReq(nurse.ID)
	req.Priority = "urgent"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.Equal(t, apperrors.ErrValidation, appErrCode(t, err))
}

func pendingTask(doctorID, assignee uuid.UUID) *model.Task {
	return &model.Task{
		Base:       model.NewBase(),
		DoctorID:   doctorID,
		AssignedTo: assignee,
		Status:     model.TaskStatusPending,
	}
}

func TestAdvanceByAssignee(t *testing.T) {
	assignee := uuid.New()
	task := pendingTask(uuid.New(), assignee)
	repo := &stubTaskRepo{task: task}
	svc := newTestService(repo, &stubUserRepo{})

	got, err := svc.AdvanceByAssignee(context.Background(), assignee, task.ID, model.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)

	got, err = svc.AdvanceByAssignee(context.Background(), assignee, task.ID, model.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestAssigneeCannotCancel(t *testing.T) {
	assignee := uuid.New()
	task := pendingTask(uuid.New(), assignee)
	svc := newTestService(&stubTaskRepo{task: task}, &stubUserRepo{})

	_, err := svc.AdvanceByAssignee(context.Background(), assignee, task.ID, model.TaskStatusCancelled)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestAdvanceByAssigneeWrongAssignee(t *testing.T) {
	task := pendingTask(uuid.New(), uuid.New())
	svc := newTestService(&stubTaskRepo{task: task}, &stubUserRepo{})

	_, err := svc.AdvanceByAssignee(context.Background(), uuid.New(), task.ID, model.TaskStatusInProgress)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestDoctorCanCancel(t *testing.T) {
	doctorID := uuid.New()
	task := pendingTask(doctorID, uuid.New())
	svc := newTestService(&stubTaskRepo{task: task}, &stubUserRepo{})

	got, err := svc.AdvanceByDoctor(context.Background(), doctorID, task.ID, model.TaskStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCancelled, got.Status)
}

func TestCompletedTaskImmutable(t *testing.T) {
	doctorID := uuid.New()
	task := pendingTask(doctorID, uuid.New())
	task.Status = model.TaskStatusCompleted
	svc := newTestService(&stubTaskRepo{task: task}, &stubUserRepo{})

	_, err := svc.AdvanceByDoctor(context.Background(), doctorID, task.ID, model.TaskStatusCancelled)
	assert.Equal(t, apperrors.ErrIllegalTransition, appErrCode(t, err))
}
