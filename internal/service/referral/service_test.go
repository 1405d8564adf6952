package referral

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

type stubReferralRepo struct {
	repository.ReferralRepository
	referral *model.Referral
	created  *model.Referral
	updated  *model.Referral
}

func (s *stubReferralRepo) Create(ctx context.Context, referral *model.Referral) error {
	s.created = referral
	return nil
}

func (s *stubReferralRepo) Get(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	if s.referral == nil {
		return nil, repository.ErrNotFound
	}
	return s.referral, nil
}

func (s *stubReferralRepo) Update(ctx context.Context, referral *model.Referral) error {
	s.updated = referral
	return nil
}

type stubAppointmentRepo struct {
	repository.AppointmentRepository
	hasHistory bool
}

func (s *stubAppointmentRepo) HasHistory(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	return s.hasHistory, nil
}

type stubProfileRepo struct {
	repository.ProfileRepository
	doctor *model.DoctorProfile
}

func (s *stubProfileRepo) GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	if s.doctor == nil {
		return nil, repository.ErrNotFound
	}
	return s.doctor, nil
}

func newTestService(repo *stubReferralRepo, hasHistory bool, doctor *model.DoctorProfile) *Service {
	return NewService(repo, &stubAppointmentRepo{hasHistory: hasHistory}, &stubProfileRepo{doctor: doctor})
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestCreate(t *testing.T) {
	referred := &model.DoctorProfile{Base: model.NewBase()}
	repo := &stubReferralRepo{}
	svc := newTestService(repo, true, referred)
	referringID := uuid.New()

	got, err := svc.Create(context.Background(), referringID, &model.CreateReferralRequest{
		PatientID:        uuid.New(),
		ReferredDoctorID: referred.ID,
		Reason:           "cardiology consult",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReferralStatusPending, got.Status)
	assert.Equal(t, referringID, got.ReferringDoctorID)
}

func TestCreateNoHistory(t *testing.T) {
	referred := &model.DoctorProfile{Base: model.NewBase()}
	svc := newTestService(&stubReferralRepo{}, false, referred)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateReferralRequest{
		PatientID:        uuid.New(),
		ReferredDoctorID: referred.ID,
		Reason:           "cardiology consult",
	})
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestCreateSelfReferral(t *testing.T) {
	doctorID := uuid.New()
	svc := newTestService(&stubReferralRepo{}, true, nil)

	_, err := svc.Create(context.Background(), doctorID, &model.CreateReferralRequest{
		PatientID:        uuid.New(),
		ReferredDoctorID: doctorID,
		Reason:           "cardiology consult",
	})
	assert.Equal(t, apperrors.ErrValidation, appErrCode(t, err))
}

func TestCreateUnknownReferredDoctor(t *testing.T) {
	svc := newTestService(&stubReferralRepo{}, true, nil)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateReferralRequest{
		PatientID:        uuid.New(),
		ReferredDoctorID: uuid.New(),
		Reason:           "cardiology consult",
	})
	assert.Equal(t, apperrors.ErrNotFound, appErrCode(t, err))
}

func pendingReferral(referredDoctorID uuid.UUID) *model.Referral {
	return &model.Referral{
		Base:              model.NewBase(),
		PatientID:         uuid.New(),
		ReferringDoctorID: uuid.New(),
		ReferredDoctorID:  referredDoctorID,
		Status:            model.ReferralStatusPending,
	}
}

func TestRespond(t *testing.T) {
	referredID := uuid.New()
	referral := pendingReferral(referredID)
	repo := &stubReferralRepo{referral: referral}
	svc := newTestService(repo, true, nil)

	got, err := svc.Respond(context.Background(), referredID, referral.ID, model.ReferralStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.ReferralStatusAccepted, got.Status)
}

func TestRespondOnlyReferredDoctor(t *testing.T) {
	referral := pendingReferral(uuid.New())
	svc := newTestService(&stubReferralRepo{referral: referral}, true, nil)

	_, err := svc.Respond(context.Background(), referral.ReferringDoctorID, referral.ID, model.ReferralStatusAccepted)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestRespondBadStatus(t *testing.T) {
	referredID := uuid.New()
	referral := pendingReferral(referredID)
	svc := newTestService(&stubReferralRepo{referral: referral}, true, nil)

	_, err := svc.Respond(context.Background(), referredID, referral.ID, model.ReferralStatusCompleted)
	assert.Equal(t, apperrors.ErrValidation, appErrCode(t, err))
}

func TestComplete(t *testing.T) {
	referredID := uuid.New()
	referral := pendingReferral(referredID)
	referral.Status = model.ReferralStatusAccepted
	svc := newTestService(&stubReferralRepo{referral: referral}, true, nil)

	got, err := svc.Complete(context.Background(), referredID, referral.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReferralStatusCompleted, got.Status)
	require.NotNil(t, got.CompletionDate)
}

func TestCompleteRequiresAccepted(t *testing.T) {
	referredID := uuid.New()
	referral := pendingReferral(referredID)
	svc := newTestService(&stubReferralRepo{referral: referral}, true, nil)

	_, err := svc.Complete(context.Background(), referredID, referral.ID)
	assert.Equal(t, apperrors.ErrIllegalTransition, appErrCode(t, err))
}
