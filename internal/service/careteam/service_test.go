package careteam

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

type stubAssignmentRepo struct {
	repository.AssignmentRepository
	active    *model.NurseAssignment
	stored    *model.NurseAssignment
	createErr error
	created   *model.NurseAssignment
	updated   *model.NurseAssignment
}

func (s *stubAssignmentRepo) GetActiveByNurse(ctx context.Context, nurseID uuid.UUID) (*model.NurseAssignment, error) {
	if s.active == nil {
		return nil, repository.ErrNotFound
	}
	return s.active, nil
}

func (s *stubAssignmentRepo) Create(ctx context.Context, assignment *model.NurseAssignment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = assignment
	return nil
}

func (s *stubAssignmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.NurseAssignment, error) {
	if s.stored == nil {
		return nil, repository.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubAssignmentRepo) Update(ctx context.Context, assignment *model.NurseAssignment) error {
	s.updated = assignment
	return nil
}

type stubProfileRepo struct {
	repository.ProfileRepository
	doctor *model.DoctorProfile
	nurse  *model.NurseProfile
}

func (s *stubProfileRepo) GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	if s.doctor == nil {
		return nil, repository.ErrNotFound
	}
	return s.doctor, nil
}

func (s *stubProfileRepo) GetNurseProfile(ctx context.Context, id uuid.UUID) (*model.NurseProfile, error) {
	if s.nurse == nil {
		return nil, repository.ErrNotFound
	}
	return s.nurse, nil
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *stubAssignmentRepo, profiles *stubProfileRepo) *Service {
	svc := NewService(repo, profiles)
	svc.clock = func() time.Time { return now }
	return svc
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestActingDoctor(t *testing.T) {
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	repo := &stubAssignmentRepo{active: &model.NurseAssignment{Base: model.NewBase(), DoctorID: doctor.ID, IsActive: true}}
	svc := newTestService(repo, &stubProfileRepo{doctor: doctor})

	got, err := svc.ActingDoctor(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doctor.ID, got.ID)
}

func TestActingDoctorNoAssignment(t *testing.T) {
	// An unassigned nurse has no scope; that is a warning state, not an
	// error.
	svc := newTestService(&stubAssignmentRepo{}, &stubProfileRepo{})

	got, err := svc.ActingDoctor(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAssign(t *testing.T) {
	nurse := &model.NurseProfile{Base: model.NewBase()}
	repo := &stubAssignmentRepo{}
	svc := newTestService(repo, &stubProfileRepo{nurse: nurse})
	doctorID := uuid.New()

	got, err := svc.Assign(context.Background(), doctorID, &model.AssignNurseRequest{
		NurseID:   nurse.ID,
		StartDate: "2026-03-02",
	})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, doctorID, got.DoctorID)
	assert.Equal(t, nurse.ID, got.NurseID)
}

func TestAssignNurseAlreadyAssigned(t *testing.T) {
	nurse := &model.NurseProfile{Base: model.NewBase()}
	repo := &stubAssignmentRepo{createErr: repository.ErrDuplicate}
	svc := newTestService(repo, &stubProfileRepo{nurse: nurse})

	_, err := svc.Assign(context.Background(), uuid.New(), &model.AssignNurseRequest{
		NurseID:   nurse.ID,
		StartDate: "2026-03-02",
	})
	assert.Equal(t, apperrors.ErrConflict, appErrCode(t, err))
}

func TestAssignUnknownNurse(t *testing.T) {
	svc := newTestService(&stubAssignmentRepo{}, &stubProfileRepo{})

	_, err := svc.Assign(context.Background(), uuid.New(), &model.AssignNurseRequest{
		NurseID:   uuid.New(),
		StartDate: "2026-03-02",
	})
	assert.Equal(t, apperrors.ErrNotFound, appErrCode(t, err))
}

func TestEnd(t *testing.T) {
	doctorID := uuid.New()
	assignment := &model.NurseAssignment{Base: model.NewBase(), DoctorID: doctorID, NurseID: uuid.New(), IsActive: true}
	repo := &stubAssignmentRepo{stored: assignment}
	svc := newTestService(repo, &stubProfileRepo{})

	got, err := svc.End(context.Background(), doctorID, assignment.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.EndDate)
}

func TestEndGuards(t *testing.T) {
	doctorID := uuid.New()
	assignment := &model.NurseAssignment{Base: model.NewBase(), DoctorID: doctorID, IsActive: true}
	svc := newTestService(&stubAssignmentRepo{stored: assignment}, &stubProfileRepo{})

	_, err := svc.End(context.Background(), uuid.New(), assignment.ID)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))

	assignment.IsActive = false
	_, err = svc.End(context.Background(), doctorID, assignment.ID)
	assert.Equal(t, apperrors.ErrConflict, appErrCode(t, err))
}
