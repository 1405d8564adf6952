package record

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

type stubRecordRepo struct {
	repository.MedicalRecordRepository
	record           *model.MedicalRecord
	created          *model.MedicalRecord
	updated          *model.MedicalRecord
	createdTreatment *model.Treatment
	treatmentErr     error
}

func (s *stubRecordRepo) Create(ctx context.Context, record *model.MedicalRecord) error {
	s.created = record
	return nil
}

func (s *stubRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	if s.record == nil {
		return nil, repository.ErrNotFound
	}
	return s.record, nil
}

func (s *stubRecordRepo) Update(ctx context.Context, record *model.MedicalRecord) error {
	s.updated = record
	return nil
}

func (s *stubRecordRepo) CreateTreatment(ctx context.Context, treatment *model.Treatment) error {
	if s.treatmentErr != nil {
		return s.treatmentErr
	}
	s.createdTreatment = treatment
	return nil
}

type stubAppointmentRepo struct {
	repository.AppointmentRepository
	appointment *model.Appointment
}

func (s *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if s.appointment == nil {
		return nil, repository.ErrNotFound
	}
	return s.appointment, nil
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *stubRecordRepo, appointments *stubAppointmentRepo) *Service {
	svc := NewService(repo, appointments)
	svc.clock = func() time.Time { return now }
	return svc
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func completedAppointment(doctorID uuid.UUID) *model.Appointment {
	return &model.Appointment{
		Base:      model.NewBase(),
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Status:    model.AppointmentStatusCompleted,
	}
}

func recordReq() *model.CreateMedicalRecordRequest {
	return &model.CreateMedicalRecordRequest{
		Diagnosis: "seasonal allergy",
		Symptoms:  "sneezing, watery eyes",
		Treatment: "antihistamines",
	}
}

func TestCreateFromAppointment(t *testing.T) {
	doctorID := uuid.New()
	appointment := completedAppointment(doctorID)
	repo := &stubRecordRepo{}
	svc := newTestService(repo, &stubAppointmentRepo{appointment: appointment})

	got, err := svc.CreateFromAppointment(context.Background(), doctorID, appointment.ID, recordReq())
	require.NoError(t, err)
	assert.Equal(t, appointment.PatientID, got.PatientID)
	require.NotNil(t, got.AppointmentID)
	assert.Equal(t, appointment.ID, *got.AppointmentID)
	assert.Nil(t, repo.createdTreatment, "no treatment requested")
}

func TestCreateFromAppointmentWithTreatment(t *testing.T) {
	doctorID := uuid.New()
	appointment := completedAppointment(doctorID)
	repo := &stubRecordRepo{}
	svc := newTestService(repo, &stubAppointmentRepo{appointment: appointment})

	req := recordReq()
	plan := "weekly immunotherapy"
	followUp := "2026-03-15"
	req.TreatmentPlan = &plan
	req.FollowUpDate = &followUp

	_, err := svc.CreateFromAppointment(context.Background(), doctorID, appointment.ID, req)
	require.NoError(t, err)
	require.NotNil(t, repo.createdTreatment)
	assert.Equal(t, plan, repo.createdTreatment.TreatmentPlan)
	require.NotNil(t, repo.createdTreatment.FollowUpDate)
}

func TestCreateFromAppointmentNotCompleted(t *testing.T) {
	doctorID := uuid.New()
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	} {
		appointment := completedAppointment(doctorID)
		appointment.Status = status
		svc := newTestService(&stubRecordRepo{}, &stubAppointmentRepo{appointment: appointment})

		_, err := svc.CreateFromAppointment(context.Background(), doctorID, appointment.ID, recordReq())
		assert.Equal(t, apperrors.ErrIllegalTransition, appErrCode(t, err), "status %s", status)
	}
}

func TestCreateFromAppointmentOtherDoctor(t *testing.T) {
	appointment := completedAppointment(uuid.New())
	svc := newTestService(&stubRecordRepo{}, &stubAppointmentRepo{appointment: appointment})

	_, err := svc.CreateFromAppointment(context.Background(), uuid.New(), appointment.ID, recordReq())
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestCreateFromAppointmentPastFollowUp(t *testing.T) {
	doctorID := uuid.New()
	appointment := completedAppointment(doctorID)
	svc := newTestService(&stubRecordRepo{}, &stubAppointmentRepo{appointment: appointment})

	req := recordReq()
	plan := "weekly immunotherapy"
	followUp := "2026-02-01"
	req.TreatmentPlan = &plan
	req.FollowUpDate = &followUp

	_, err := svc.CreateFromAppointment(context.Background(), doctorID, appointment.ID, req)
	assert.Equal(t, apperrors.ErrInvalidDate, appErrCode(t, err))
}

func TestUpdate(t *testing.T) {
	doctorID := uuid.New()
	record := &model.MedicalRecord{
		Base:      model.NewBase(),
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Diagnosis: "seasonal allergy",
		Symptoms:  "sneezing",
		Treatment: "antihistamines",
	}
	repo := &stubRecordRepo{record: record}
	svc := newTestService(repo, &stubAppointmentRepo{})

	diagnosis := "allergic rhinitis"
	got, err := svc.Update(context.Background(), doctorID, record.ID, &model.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	require.NoError(t, err)
	assert.Equal(t, diagnosis, got.Diagnosis)
	assert.Equal(t, "sneezing", got.Symptoms, "absent fields keep stored values")
	require.NotNil(t, repo.updated)
	assert.Equal(t, now, repo.updated.UpdatedAt)
}

func TestUpdateOtherDoctor(t *testing.T) {
	record := &model.MedicalRecord{Base: model.NewBase(), PatientID: uuid.New(), DoctorID: uuid.New()}
	repo := &stubRecordRepo{record: record}
	svc := newTestService(repo, &stubAppointmentRepo{})

	diagnosis := "allergic rhinitis"
	_, err := svc.Update(context.Background(), uuid.New(), record.ID, &model.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
	assert.Nil(t, repo.updated)
}

func TestGetForViewer(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	record := &model.MedicalRecord{Base: model.NewBase(), PatientID: patientID, DoctorID: doctorID}
	svc := newTestService(&stubRecordRepo{record: record}, &stubAppointmentRepo{})

	got, err := svc.GetForViewer(context.Background(), &model.Principal{Role: model.RolePatient, ProfileID: patientID}, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	got, err = svc.GetForViewer(context.Background(), &model.Principal{Role: model.RoleDoctor, ProfileID: doctorID}, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = svc.GetForViewer(context.Background(), &model.Principal{Role: model.RolePatient, ProfileID: uuid.New()}, record.ID)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))

	_, err = svc.GetForViewer(context.Background(), &model.Principal{Role: model.RoleDoctor, ProfileID: uuid.New()}, record.ID)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))

	_, err = svc.GetForViewer(context.Background(), &model.Principal{Role: model.RoleNurse, ProfileID: uuid.New()}, record.ID)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}
