package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/email"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/internal/service/availability"
	"github.com/careloop/clinic-api/internal/workflow"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/logger"
	"github.com/careloop/clinic-api/pkg/messaging"
	"github.com/careloop/clinic-api/pkg/metrics"
)

const eventChannel = "appointments"

// Service drives the booking pipeline and the appointment lifecycle.
type Service struct {
	repo     repository.AppointmentRepository
	profiles repository.ProfileRepository
	users    repository.UserRepository
	resolver *availability.Resolver
	mailer   *email.Service
	broker   messaging.Broker
	log      *logger.Logger
	clock    func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	schedules repository.ScheduleRepository,
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	mailer *email.Service,
	broker messaging.Broker,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		users:    users,
		resolver: availability.NewResolver(schedules),
		mailer:   mailer,
		broker:   broker,
		log:      log,
		clock:    time.Now,
	}
}

// Book validates and commits a new appointment. The slot re-check and the
// insert are atomic in the store, so at most one scheduled appointment can
// hold a (doctor, date, time) slot under concurrent requests.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("date", "must be YYYY-MM-DD")
	}
	t, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, apperrors.Validation("time", "must be HH:MM")
	}
	if date.Before(model.DateOnly(s.clock())) {
		metrics.RecordBooking("rejected")
		return nil, apperrors.InvalidDate("appointment date is in the past")
	}

	doctor, err := s.profiles.GetDoctorProfile(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(err)
	}

	open, err := s.resolver.IsAvailableAt(ctx, doctor.ID, date, t)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !open {
		metrics.RecordBooking("unavailable")
		return nil, apperrors.Unavailable("doctor is not available at the requested time")
	}

	appointment := &model.Appointment{
		Base:      model.NewBase(),
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Date:      model.DateOnly(date),
		Time:      t,
		Reason:    req.Reason,
		Status:    model.AppointmentStatusScheduled,
	}
	if err := s.repo.CreateScheduled(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			metrics.RecordBooking("slot_taken")
			return nil, apperrors.SlotTaken("the requested slot was just booked")
		}
		return nil, apperrors.Internal(err)
	}
	metrics.RecordBooking("booked")

	s.publish(ctx, "appointment.booked", appointment)
	s.notifyBooked(ctx, appointment, doctor)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, status model.AppointmentStatus) ([]*model.Appointment, error) {
	return s.list(ctx, &model.AppointmentFilters{PatientID: patientID, Status: status})
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, status model.AppointmentStatus, from, to time.Time) ([]*model.Appointment, error) {
	return s.list(ctx, &model.AppointmentFilters{DoctorID: doctorID, Status: status, DateFrom: from, DateTo: to})
}

// Patients lists the distinct patients with appointment history under the
// doctor, any status.
func (s *Service) Patients(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error) {
	patients, err := s.profiles.ListPatientsByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) list(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// Complete marks the appointment done. Only the owning doctor's scope may
// complete; a completed appointment unlocks medical-record creation.
func (s *Service) Complete(ctx context.Context, doctorID, id uuid.UUID, notes string) (*model.Appointment, error) {
	return s.resolve(ctx, doctorID, id, model.AppointmentStatusCompleted, notes)
}

// NoShow records that the patient did not attend.
func (s *Service) NoShow(ctx context.Context, doctorID, id uuid.UUID) (*model.Appointment, error) {
	return s.resolve(ctx, doctorID, id, model.AppointmentStatusNoShow, "")
}

// CancelByDoctor cancels within the doctor's scope, any time before a
// terminal state.
func (s *Service) CancelByDoctor(ctx context.Context, doctorID, id uuid.UUID) (*model.Appointment, error) {
	return s.resolve(ctx, doctorID, id, model.AppointmentStatusCancelled, "")
}

// CancelByPatient cancels the patient's own appointment, only before the
// appointment date.
func (s *Service) CancelByPatient(ctx context.Context, patientID, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.Authorization("appointment belongs to another patient")
	}
	if !model.DateOnly(s.clock()).Before(model.DateOnly(appointment.Date)) {
		return nil, apperrors.InvalidDate("appointments can only be cancelled before their date")
	}
	return s.transition(ctx, appointment, model.AppointmentStatusCancelled, "")
}

func (s *Service) resolve(ctx context.Context, doctorID, id uuid.UUID, status model.AppointmentStatus, notes string) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.Authorization("appointment belongs to another doctor")
	}
	return s.transition(ctx, appointment, status, notes)
}

func (s *Service) transition(ctx context.Context, appointment *model.Appointment, status model.AppointmentStatus, notes string) (*model.Appointment, error) {
	if !workflow.Appointment.Can(string(appointment.Status), string(status)) {
		return nil, apperrors.IllegalTransition("appointment", string(appointment.Status), string(status))
	}

	appointment.Status = status
	if notes != "" {
		appointment.Notes = notes
	}
	appointment.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.publish(ctx, "appointment."+string(status), appointment)
	if status == model.AppointmentStatusCancelled {
		s.notifyCancelled(ctx, appointment)
	}
	return appointment, nil
}

func (s *Service) publish(ctx context.Context, eventType string, appointment *model.Appointment) {
	event := messaging.NewEvent(eventType, "appointment", appointment.ID, map[string]interface{}{
		"doctor_id":  appointment.DoctorID,
		"patient_id": appointment.PatientID,
		"date":       appointment.Date.Format("2006-01-02"),
		"time":       appointment.Time.String(),
	})
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.log.Error(err, "failed to publish appointment event", map[string]interface{}{
			"event_type":     eventType,
			"appointment_id": appointment.ID,
		})
	}
}

func (s *Service) notifyBooked(ctx context.Context, appointment *model.Appointment, doctor *model.DoctorProfile) {
	patient, doctorUser, ok := s.participants(ctx, appointment, doctor.UserID)
	if !ok {
		return
	}
	s.mailer.SendBookingConfirmation(patient.Email, doctorUser.LastName,
		appointment.Date.Format("2006-01-02"), appointment.Time.String())
}

func (s *Service) notifyCancelled(ctx context.Context, appointment *model.Appointment) {
	doctor, err := s.profiles.GetDoctorProfile(ctx, appointment.DoctorID)
	if err != nil {
		return
	}
	patient, _, ok := s.participants(ctx, appointment, doctor.UserID)
	if !ok {
		return
	}
	s.mailer.SendCancellation(patient.Email,
		appointment.Date.Format("2006-01-02"), appointment.Time.String())
}

func (s *Service) participants(ctx context.Context, appointment *model.Appointment, doctorUserID uuid.UUID) (*model.User, *model.User, bool) {
	profile, err := s.profiles.GetPatientProfile(ctx, appointment.PatientID)
	if err != nil {
		return nil, nil, false
	}
	patient, err := s.users.Get(ctx, profile.UserID)
	if err != nil {
		return nil, nil, false
	}
	doctorUser, err := s.users.Get(ctx, doctorUserID)
	if err != nil {
		return nil, nil, false
	}
	return patient, doctorUser, true
}
