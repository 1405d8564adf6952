package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/pkg/auth"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/security"
)

// Service handles registration and login.
type Service struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	hasher   security.PasswordHasher
	tokens   *auth.TokenManager
}

func NewService(users repository.UserRepository, profiles repository.ProfileRepository, hasher security.PasswordHasher, tokens *auth.TokenManager) *Service {
	return &Service{users: users, profiles: profiles, hasher: hasher, tokens: tokens}
}

// Register creates a user and, for patient/doctor/nurse roles, an empty
// role profile the user fills in later.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.Validation("role", "unknown role")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password", err.Error())
	}

	user := &model.User{
		Base:         model.NewBase(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered")
		}
		return nil, apperrors.Internal(err)
	}

	switch req.Role {
	case model.RoleDoctor:
		err = s.profiles.CreateDoctorProfile(ctx, &model.DoctorProfile{Base: model.NewBase(), UserID: user.ID})
	case model.RolePatient:
		err = s.profiles.CreatePatientProfile(ctx, &model.PatientProfile{Base: model.NewBase(), UserID: user.ID})
	case model.RoleNurse:
		err = s.profiles.CreateNurseProfile(ctx, &model.NurseProfile{Base: model.NewBase(), UserID: user.ID})
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// Login verifies credentials and issues a token carrying the role and the
// role-specific profile id.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Authorization("invalid email or password")
		}
		return nil, apperrors.Internal(err)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Authorization("invalid email or password")
	}

	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, string(user.Role), profileID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: token, ExpiresAt: expiresAt, Role: user.Role}, nil
}

func (s *Service) profileID(ctx context.Context, user *model.User) (uuid.UUID, error) {
	var id uuid.UUID
	var err error
	switch user.Role {
	case model.RoleDoctor:
		var p *model.DoctorProfile
		if p, err = s.profiles.GetDoctorProfileByUser(ctx, user.ID); err == nil {
			id = p.ID
		}
	case model.RolePatient:
		var p *model.PatientProfile
		if p, err = s.profiles.GetPatientProfileByUser(ctx, user.ID); err == nil {
			id = p.ID
		}
	case model.RoleNurse:
		var p *model.NurseProfile
		if p, err = s.profiles.GetNurseProfileByUser(ctx, user.ID); err == nil {
			id = p.ID
		}
	default:
		return uuid.Nil, nil
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return id, nil
}
