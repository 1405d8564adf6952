package referral

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

// Service manages doctor-to-doctor referrals.
type Service struct {
	repo         repository.ReferralRepository
	appointments repository.AppointmentRepository
	profiles     repository.ProfileRepository
	clock        func() time.Time
}

func NewService(repo repository.ReferralRepository, appointments repository.AppointmentRepository, profiles repository.ProfileRepository) *Service {
	return &Service{repo: repo, appointments: appointments, profiles: profiles, clock: time.Now}
}

// Create opens a pending referral. The referring doctor must have appointment
// history with the patient, and cannot refer to themselves.
func (s *Service) Create(ctx context.Context, referringDoctorID uuid.UUID, req *model.CreateReferralRequest) (*model.Referral, error) {
	if req.ReferredDoctorID == referringDoctorID {
		return nil, apperrors.Validation("referred_doctor_id", "cannot refer a patient to yourself")
	}
	if _, err := s.profiles.GetDoctorProfile(ctx, req.ReferredDoctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("referred doctor", err)
		}
		return nil, apperrors.Internal(err)
	}

	seen, err := s.appointments.HasHistory(ctx, referringDoctorID, req.PatientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !seen {
		return nil, apperrors.Authorization("patient has no appointment history with the referring doctor")
	}

	referral := &model.Referral{
		Base:              model.NewBase(),
		PatientID:         req.PatientID,
		ReferringDoctorID: referringDoctorID,
		ReferredDoctorID:  req.ReferredDoctorID,
		MedicalRecordID:   req.MedicalRecordID,
		Reason:            req.Reason,
		Notes:             req.Notes,
		Status:            model.ReferralStatusPending,
	}
	if err := s.repo.Create(ctx, referral); err != nil {
		return nil, apperrors.Internal(err)
	}
	return referral, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	referral, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("referral", err)
		}
		return nil, apperrors.Internal(err)
	}
	return referral, nil
}

func (s *Service) ListOutgoing(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	referrals, err := s.repo.ListOutgoing(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return referrals, nil
}

func (s *Service) ListIncoming(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	referrals, err := s.repo.ListIncoming(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return referrals, nil
}

// Respond lets the referred doctor accept or decline a pending referral.
func (s *Service) Respond(ctx context.Context, doctorID, id uuid.UUID, status model.ReferralStatus) (*model.Referral, error) {
	if status != model.ReferralStatusAccepted && status != model.ReferralStatusDeclined {
		return nil, apperrors.Validation("status", "must be accepted or declined")
	}
	referral, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if referral.ReferredDoctorID != doctorID {
		return nil, apperrors.Authorization("only the referred doctor can respond")
	}
	return s.transition(ctx, referral, status)
}

// Complete closes an accepted referral, stamping the completion date.
func (s *Service) Complete(ctx context.Context, doctorID, id uuid.UUID) (*model.Referral, error) {
	referral, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if referral.ReferredDoctorID != doctorID {
		return nil, apperrors.Authorization("only the referred doctor can complete a referral")
	}
	return s.transition(ctx, referral, model.ReferralStatusCompleted)
}

func (s *Service) transition(ctx context.Context, referral *model.Referral, status model.ReferralStatus) (*model.Referral, error) {
	if !workflow.Referral.Can(string(referral.Status), string(status)) {
		return nil, apperrors.IllegalTransition("referral", string(referral.Status), string(status))
	}

	now := s.clock()
	referral.Status = status
	if status == model.ReferralStatusCompleted {
		referral.CompletionDate = &now
	}
	referral.UpdatedAt = now
	if err := s.repo.Update(ctx, referral); err != nil {
		return nil, apperrors.Internal(err)
	}
	return referral, nil
}
