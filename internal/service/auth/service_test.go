package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/pkg/auth"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/security"
)

type stubUserRepo struct {
	repository.UserRepository
	createErr error
	created   *model.User
	byEmail   *model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = user
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.byEmail == nil || s.byEmail.Email != email {
		return nil, repository.ErrNotFound
	}
	return s.byEmail, nil
}

type stubProfileRepo struct {
	repository.ProfileRepository
	doctorProfile  *model.DoctorProfile
	patientProfile *model.PatientProfile
	createdDoctor  *model.DoctorProfile
	createdPatient *model.PatientProfile
	createdNurse   *model.NurseProfile
}

func (s *stubProfileRepo) CreateDoctorProfile(ctx context.Context, p *model.DoctorProfile) error {
	s.createdDoctor = p
	return nil
}

func (s *stubProfileRepo) CreatePatientProfile(ctx context.Context, p *model.PatientProfile) error {
	s.createdPatient = p
	return nil
}

func (s *stubProfileRepo) CreateNurseProfile(ctx context.Context, p *model.NurseProfile) error {
	s.createdNurse = p
	return nil
}

func (s *stubProfileRepo) GetDoctorProfileByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	if s.doctorProfile == nil {
		return nil, repository.ErrNotFound
	}
	return s.doctorProfile, nil
}

func (s *stubProfileRepo) GetPatientProfileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	if s.patientProfile == nil {
		return nil, repository.ErrNotFound
	}
	return s.patientProfile, nil
}

func newTestService(users *stubUserRepo, profiles *stubProfileRepo) *Service {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "clinic-api-test")
	return NewService(users, profiles, security.NewBcryptHasher(bcrypt.MinCost), tokens)
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestRegister(t *testing.T) {
	users := &stubUserRepo{}
	profiles := &stubProfileRepo{}
	svc := newTestService(users, profiles)

	got, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "pat@example.com",
		Password:  "correct horse",
		FirstName: "Pat",
		LastName:  "Doe",
		Role:      model.RolePatient,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, got.Role)
	assert.NotEqual(t, "correct horse", got.PasswordHash)
	require.NotNil(t, profiles.createdPatient, "patient registration creates an empty profile")
	assert.Equal(t, got.ID, profiles.createdPatient.UserID)
}

func TestRegisterUnknownRole(t *testing.T) {
	svc := newTestService(&stubUserRepo{}, &stubProfileRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse",
		Role:     "superuser",
	})
	assert.Equal(t, apperrors.ErrValidation, appErrCode(t, err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &stubUserRepo{createErr: repository.ErrDuplicate}
	svc := newTestService(users, &stubProfileRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse",
		Role:     model.RolePatient,
	})
	assert.Equal(t, apperrors.ErrConflict, appErrCode(t, err))
}

func TestLogin(t *testing.T) {
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	user := &model.User{Base: model.NewBase(), Email: "pat@example.com", PasswordHash: hash, Role: model.RolePatient}
	profile := &model.PatientProfile{Base: model.NewBase(), UserID: user.ID}
	svc := newTestService(&stubUserRepo{byEmail: user}, &stubProfileRepo{patientProfile: profile})

	got, err := svc.Login(context.Background(), &model.LoginRequest{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.AccessToken)
	assert.Equal(t, model.RolePatient, got.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	user := &model.User{Base: model.NewBase(), Email: "pat@example.com", PasswordHash: hash, Role: model.RolePatient}
	svc := newTestService(&stubUserRepo{byEmail: user}, &stubProfileRepo{})

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: user.Email, Password: "wrong horse"})
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "missing@example.com", Password: "correct horse"})
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}
