package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/clinic-api/internal/config"
	"github.com/careloop/clinic-api/internal/email"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/logger"
	"github.com/careloop/clinic-api/pkg/messaging"
)

type stubAppointmentRepo struct {
	repository.AppointmentRepository
	created   *model.Appointment
	createErr error
	stored    *model.Appointment
	updated   *model.Appointment
}

func (s *stubAppointmentRepo) CreateScheduled(ctx context.Context, a *model.Appointment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = a
	return nil
}

func (s *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if s.stored == nil {
		return nil, repository.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	s.updated = a
	return nil
}

type stubScheduleRepo struct {
	repository.ScheduleRepository
	slots     []*model.DateSlot
	schedules []*model.WeeklySchedule
	leaves    []*model.LeaveRequest
}

func (s *stubScheduleRepo) ListDateSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.DateSlot, error) {
	return s.slots, nil
}

func (s *stubScheduleRepo) ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek string) ([]*model.WeeklySchedule, error) {
	return s.schedules, nil
}

func (s *stubScheduleRepo) ListApprovedLeavesCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.LeaveRequest, error) {
	return s.leaves, nil
}

type stubProfileRepo struct {
	repository.ProfileRepository
	doctor   *model.DoctorProfile
	patients []*model.PatientProfile
}

func (s *stubProfileRepo) ListPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error) {
	return s.patients, nil
}

func (s *stubProfileRepo) GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	if s.doctor == nil {
		return nil, repository.ErrNotFound
	}
	return s.doctor, nil
}

func (s *stubProfileRepo) GetPatientProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	return nil, repository.ErrNotFound
}

type stubUserRepo struct {
	repository.UserRepository
}

func newTestService(repo *stubAppointmentRepo, schedules *stubScheduleRepo, profiles *stubProfileRepo, now time.Time) *Service {
	log := logger.NewLogger(nil)
	svc := NewService(repo, schedules, profiles, &stubUserRepo{}, email.NewService(config.EmailConfig{}, log), messaging.NoopBroker{}, log)
	svc.clock = func() time.Time { return now }
	return svc
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func openMonday(t *testing.T) *stubScheduleRepo {
	start, err := model.ParseTimeOfDay("09:00")
	require.NoError(t, err)
	end, err := model.ParseTimeOfDay("17:00")
	require.NoError(t, err)
	return &stubScheduleRepo{
		schedules: []*model.WeeklySchedule{{StartTime: start, EndTime: end, IsAvailable: true}},
	}
}

func TestBook(t *testing.T) {
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	repo := &stubAppointmentRepo{}
	svc := newTestService(repo, openMonday(t), &stubProfileRepo{doctor: doctor}, now)

	patientID := uuid.New()
	got, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-03-02",
		Time:     "10:00",
		Reason:   "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
	assert.Equal(t, patientID, got.PatientID)
	assert.Equal(t, doctor.ID, got.DoctorID)
	require.NotNil(t, repo.created)
}

func TestBookPastDate(t *testing.T) {
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	svc := newTestService(&stubAppointmentRepo{}, openMonday(t), &stubProfileRepo{doctor: doctor}, now)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-02-28",
		Time:     "10:00",
		Reason:   "checkup",
	})
	assert.Equal(t, apperrors.ErrInvalidDate, appErrCode(t, err))
}

func TestBookSameDayAllowed(t *testing.T) {
	// Only strictly past dates are rejected.
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	svc := newTestService(&stubAppointmentRepo{}, openMonday(t), &stubProfileRepo{doctor: doctor}, now)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-03-01",
		Time:     "10:00",
		Reason:   "checkup",
	})
	require.NoError(t, err)
}

func TestBookDoctorUnavailable(t *testing.T) {
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	svc := newTestService(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubProfileRepo{doctor: doctor}, now)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-03-02",
		Time:     "10:00",
		Reason:   "checkup",
	})
	assert.Equal(t, apperrors.ErrUnavailable, appErrCode(t, err))
}

func TestBookSlotTaken(t *testing.T) {
	doctor := &model.DoctorProfile{Base: model.NewBase()}
	repo := &stubAppointmentRepo{createErr: repository.ErrSlotTaken}
	svc := newTestService(repo, openMonday(t), &stubProfileRepo{doctor: doctor}, now)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-03-02",
		Time:     "10:00",
		Reason:   "checkup",
	})
	assert.Equal(t, apperrors.ErrSlotTaken, appErrCode(t, err))
}

func TestBookUnknownDoctor(t *testing.T) {
	svc := newTestService(&stubAppointmentRepo{}, openMonday(t), &stubProfileRepo{}, now)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     "2026-03-02",
		Time:     "10:00",
		Reason:   "checkup",
	})
	assert.Equal(t, apperrors.ErrNotFound, appErrCode(t, err))
}

func scheduled(patientID, doctorID uuid.UUID, date time.Time) *model.Appointment {
	return &model.Appointment{
		Base:      model.NewBase(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      model.TimeOfDay(10 * 60),
		Status:    model.AppointmentStatusScheduled,
	}
}

func TestCancelByPatient(t *testing.T) {
	patientID := uuid.New()
	appt := scheduled(patientID, uuid.New(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	repo := &stubAppointmentRepo{stored: appt}
	svc := newTestService(repo, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	got, err := svc.CancelByPatient(context.Background(), patientID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
	require.NotNil(t, repo.updated)
}

func TestCancelByPatientOnAppointmentDay(t *testing.T) {
	patientID := uuid.New()
	appt := scheduled(patientID, uuid.New(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestService(&stubAppointmentRepo{stored: appt}, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	_, err := svc.CancelByPatient(context.Background(), patientID, appt.ID)
	assert.Equal(t, apperrors.ErrInvalidDate, appErrCode(t, err))
}

func TestCancelByPatientNotOwner(t *testing.T) {
	appt := scheduled(uuid.New(), uuid.New(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	svc := newTestService(&stubAppointmentRepo{stored: appt}, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	_, err := svc.CancelByPatient(context.Background(), uuid.New(), appt.ID)
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestCompleteByOwningDoctor(t *testing.T) {
	doctorID := uuid.New()
	appt := scheduled(uuid.New(), doctorID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	repo := &stubAppointmentRepo{stored: appt}
	svc := newTestService(repo, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	got, err := svc.Complete(context.Background(), doctorID, appt.ID, "seen and treated")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, got.Status)
	assert.Equal(t, "seen and treated", got.Notes)
}

func TestCompleteOtherDoctor(t *testing.T) {
	appt := scheduled(uuid.New(), uuid.New(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestService(&stubAppointmentRepo{stored: appt}, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	_, err := svc.Complete(context.Background(), uuid.New(), appt.ID, "")
	assert.Equal(t, apperrors.ErrAuthorization, appErrCode(t, err))
}

func TestTerminalStateImmutable(t *testing.T) {
	doctorID := uuid.New()
	appt := scheduled(uuid.New(), doctorID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	appt.Status = model.AppointmentStatusCompleted
	svc := newTestService(&stubAppointmentRepo{stored: appt}, &stubScheduleRepo{}, &stubProfileRepo{}, now)

	_, err := svc.NoShow(context.Background(), doctorID, appt.ID)
	assert.Equal(t, apperrors.ErrIllegalTransition, appErrCode(t, err))

	_, err = svc.CancelByDoctor(context.Background(), doctorID, appt.ID)
	assert.Equal(t, apperrors.ErrIllegalTransition, appErrCode(t, err))
}

func TestPatients(t *testing.T) {
	roster := []*model.PatientProfile{
		{Base: model.NewBase()},
		{Base: model.NewBase()},
	}
	svc := newTestService(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubProfileRepo{patients: roster}, now)

	got, err := svc.Patients(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, roster, got)
}
