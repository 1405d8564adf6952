package record

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service manages medical records, follow-up treatments and patient notes.
type Service struct {
	repo         repository.MedicalRecordRepository
	appointments repository.AppointmentRepository
	clock        func() time.Time
}

func NewService(repo repository.MedicalRecordRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointments: appointments, clock: time.Now}
}

// CreateFromAppointment writes a record against a completed appointment.
// Completion is the gate: records cannot reference scheduled, cancelled or
// no-show appointments.
func (s *Service) CreateFromAppointment(ctx context.Context, doctorID, appointmentID uuid.UUID, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.Authorization("appointment belongs to another doctor")
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.IllegalTransition("appointment", string(appointment.Status), "record-attached")
	}

	record := &model.MedicalRecord{
		Base:          model.NewBase(),
		PatientID:     appointment.PatientID,
		DoctorID:      doctorID,
		AppointmentID: &appointment.ID,
		Diagnosis:     req.Diagnosis,
		Symptoms:      req.Symptoms,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, apperrors.Internal(err)
	}

	if req.TreatmentPlan != nil && *req.TreatmentPlan != "" {
		if _, err := s.addTreatment(ctx, record.ID, req); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func (s *Service) addTreatment(ctx context.Context, recordID uuid.UUID, req *model.CreateMedicalRecordRequest) (*model.Treatment, error) {
	treatment := &model.Treatment{
		Base:            model.NewBase(),
		MedicalRecordID: recordID,
		TreatmentPlan:   *req.TreatmentPlan,
		FollowUpNotes:   req.FollowUpNotes,
	}
	if req.FollowUpDate != nil && *req.FollowUpDate != "" {
		date, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return nil, apperrors.Validation("follow_up_date", "must be YYYY-MM-DD")
		}
		if date.Before(model.DateOnly(s.clock())) {
			return nil, apperrors.InvalidDate("follow-up date is in the past")
		}
		treatment.FollowUpDate = &date
	}
	if err := s.repo.CreateTreatment(ctx, treatment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("record already has a treatment plan")
		}
		return nil, apperrors.Internal(err)
	}
	return treatment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical record", err)
		}
		return nil, apperrors.Internal(err)
	}
	return record, nil
}

// Update amends a record's clinical fields. Only the authoring doctor may
// edit; absent fields keep their stored values.
func (s *Service) Update(ctx context.Context, doctorID, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.DoctorID != doctorID {
		return nil, apperrors.Authorization("record was authored by another doctor")
	}

	if req.Diagnosis != nil {
		record.Diagnosis = *req.Diagnosis
	}
	if req.Symptoms != nil {
		record.Symptoms = *req.Symptoms
	}
	if req.Treatment != nil {
		record.Treatment = *req.Treatment
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, apperrors.Internal(err)
	}
	return record, nil
}

// GetForViewer applies read scoping: patients see their own records, doctors
// the ones they authored.
func (s *Service) GetForViewer(ctx context.Context, p *model.Principal, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.Role {
	case model.RolePatient:
		if record.PatientID != p.ProfileID {
			return nil, apperrors.Authorization("record belongs to another patient")
		}
	case model.RoleDoctor:
		if record.DoctorID != p.ProfileID {
			return nil, apperrors.Authorization("record was authored by another doctor")
		}
	default:
		return nil, apperrors.Authorization("role cannot read medical records")
	}
	return record, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.MedicalRecord, error) {
	records, err := s.repo.ListByDoctor(ctx, doctorID, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

func (s *Service) Treatment(ctx context.Context, recordID uuid.UUID) (*model.Treatment, error) {
	treatment, err := s.repo.GetTreatmentByRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("treatment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return treatment, nil
}

func (s *Service) CreateNote(ctx context.Context, doctorID uuid.UUID, req *model.CreatePatientNoteRequest) (*model.PatientNote, error) {
	note := &model.PatientNote{
		Base:      model.NewBase(),
		DoctorID:  doctorID,
		PatientID: req.PatientID,
		Note:      req.Note,
		IsPrivate: req.IsPrivate != nil && *req.IsPrivate,
	}
	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, apperrors.Internal(err)
	}
	return note, nil
}

// ListNotes returns a doctor's notes about a patient. Private notes are
// included only for the authoring doctor; delegated nurses see shared notes.
func (s *Service) ListNotes(ctx context.Context, doctorID, patientID uuid.UUID, includePrivate bool) ([]*model.PatientNote, error) {
	notes, err := s.repo.ListNotes(ctx, doctorID, patientID, includePrivate)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return notes, nil
}
