package careteam

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service resolves nurse-to-doctor delegation and manages assignments.
type Service struct {
	repo     repository.AssignmentRepository
	profiles repository.ProfileRepository
	clock    func() time.Time
}

func NewService(repo repository.AssignmentRepository, profiles repository.ProfileRepository) *Service {
	return &Service{repo: repo, profiles: profiles, clock: time.Now}
}

// ActingDoctor returns the doctor the nurse currently acts for, or nil when
// the nurse has no active assignment. No assignment is not an error; callers
// surface it as an empty scope.
func (s *Service) ActingDoctor(ctx context.Context, nurseID uuid.UUID) (*model.DoctorProfile, error) {
	assignment, err := s.repo.GetActiveByNurse(ctx, nurseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	doctor, err := s.profiles.GetDoctorProfile(ctx, assignment.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

// Assign creates an active assignment binding a nurse to the doctor. A nurse
// holds at most one active assignment at a time.
func (s *Service) Assign(ctx context.Context, doctorID uuid.UUID, req *model.AssignNurseRequest) (*model.NurseAssignment, error) {
	nurse, err := s.profiles.GetNurseProfile(ctx, req.NurseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("nurse", err)
		}
		return nil, apperrors.Internal(err)
	}

	startDate := model.DateOnly(s.clock())
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, apperrors.Validation("start_date", "must be YYYY-MM-DD")
		}
	}

	assignment := &model.NurseAssignment{
		Base:      model.NewBase(),
		DoctorID:  doctorID,
		NurseID:   nurse.ID,
		StartDate: startDate,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("nurse already has an active assignment")
		}
		return nil, apperrors.Internal(err)
	}
	return assignment, nil
}

// End deactivates an assignment, stamping its end date.
func (s *Service) End(ctx context.Context, doctorID, id uuid.UUID) (*model.NurseAssignment, error) {
	assignment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("assignment", err)
		}
		return nil, apperrors.Internal(err)
	}
	if assignment.DoctorID != doctorID {
		return nil, apperrors.Authorization("assignment belongs to another doctor")
	}
	if !assignment.IsActive {
		return nil, apperrors.Conflict("assignment is already ended")
	}

	now := s.clock()
	endDate := model.DateOnly(now)
	assignment.IsActive = false
	assignment.EndDate = &endDate
	assignment.UpdatedAt = now
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return assignment, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.NurseAssignment, error) {
	assignments, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return assignments, nil
}
