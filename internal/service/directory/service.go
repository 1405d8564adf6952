package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service is the doctor directory patients search before booking.
type Service struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
}

func NewService(profiles repository.ProfileRepository, users repository.UserRepository) *Service {
	return &Service{profiles: profiles, users: users}
}

// Listing pairs a doctor profile with the public parts of its user record.
type Listing struct {
	model.DoctorProfile
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Service) SearchDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*Listing, error) {
	profiles, err := s.profiles.ListDoctors(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	listings := make([]*Listing, 0, len(profiles))
	for _, profile := range profiles {
		user, err := s.users.Get(ctx, profile.UserID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		listings = append(listings, &Listing{
			DoctorProfile: *profile,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
		})
	}
	return listings, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Listing, error) {
	profile, err := s.profiles.GetDoctorProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(err)
	}
	user, err := s.users.Get(ctx, profile.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Listing{DoctorProfile: *profile, FirstName: user.FirstName, LastName: user.LastName}, nil
}
