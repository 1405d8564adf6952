package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/internal/service/availability"
	"github.com/careloop/clinic-api/internal/workflow"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service manages a doctor's availability calendar: recurring weekly windows,
// date-specific slots and leave requests.
type Service struct {
	repo     repository.ScheduleRepository
	resolver *availability.Resolver
	clock    func() time.Time
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{
		repo:     repo,
		resolver: availability.NewResolver(repo),
		clock:    time.Now,
	}
}

func (s *Service) AddSchedule(ctx context.Context, doctorID uuid.UUID, req *model.CreateScheduleRequest) (*model.WeeklySchedule, error) {
	if !model.ValidWeekday(req.DayOfWeek) {
		return nil, apperrors.Validation("day_of_week", "must be a weekday name, e.g. Monday")
	}
	start, err := model.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, apperrors.Validation("start_time", "must be HH:MM")
	}
	end, err := model.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, apperrors.Validation("end_time", "must be HH:MM")
	}
	if !start.Before(end) {
		return nil, apperrors.Validation("end_time", "must be after start_time")
	}

	schedule := &model.WeeklySchedule{
		Base:        model.NewBase(),
		DoctorID:    doctorID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, apperrors.Conflict("time range overlaps an existing schedule for " + req.DayOfWeek)
		}
		return nil, apperrors.Internal(err)
	}
	return schedule, nil
}

func (s *Service) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.WeeklySchedule, error) {
	schedules, err := s.repo.ListSchedules(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return schedules, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, doctorID, id uuid.UUID) error {
	if err := s.repo.DeleteSchedule(ctx, id, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("schedule", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) AddDateSlot(ctx context.Context, doctorID uuid.UUID, req *model.CreateDateSlotRequest) (*model.DateSlot, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("date", "must be YYYY-MM-DD")
	}
	if date.Before(model.DateOnly(s.clock())) {
		return nil, apperrors.InvalidDate("date is in the past")
	}
	start, err := model.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, apperrors.Validation("start_time", "must be HH:MM")
	}
	end, err := model.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, apperrors.Validation("end_time", "must be HH:MM")
	}
	if !start.Before(end) {
		return nil, apperrors.Validation("end_time", "must be after start_time")
	}

	slot := &model.DateSlot{
		Base:        model.NewBase(),
		DoctorID:    doctorID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := s.repo.CreateDateSlot(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, apperrors.Conflict("time range overlaps an existing slot on " + req.Date)
		}
		return nil, apperrors.Internal(err)
	}
	return slot, nil
}

func (s *Service) ListDateSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.DateSlot, error) {
	slots, err := s.repo.ListDateSlots(ctx, doctorID, model.DateOnly(date))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return slots, nil
}

func (s *Service) DeleteDateSlot(ctx context.Context, doctorID, id uuid.UUID) error {
	if err := s.repo.DeleteDateSlot(ctx, id, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("date slot", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

// Availability returns the doctor's open windows for a date. Always computed
// from the store, never cached across requests.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]model.Interval, error) {
	intervals, err := s.resolver.OpenIntervals(ctx, doctorID, model.DateOnly(date))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return intervals, nil
}

func (s *Service) RequestLeave(ctx context.Context, doctorID uuid.UUID, req *model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("start_date", "must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("end_date", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.Validation("end_date", "must not be before start_date")
	}
	if end.Before(model.DateOnly(s.clock())) {
		return nil, apperrors.InvalidDate("leave range is entirely in the past")
	}

	leave := &model.LeaveRequest{
		Base:      model.NewBase(),
		DoctorID:  doctorID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    model.LeaveStatusPending,
	}
	if err := s.repo.CreateLeave(ctx, leave); err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}

func (s *Service) ListLeaves(ctx context.Context, doctorID uuid.UUID) ([]*model.LeaveRequest, error) {
	leaves, err := s.repo.ListLeaves(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return leaves, nil
}

func (s *Service) ListPendingLeaves(ctx context.Context) ([]*model.LeaveRequest, error) {
	leaves, err := s.repo.ListPendingLeaves(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return leaves, nil
}

// ResolveLeave moves a pending leave to approved or rejected. Resolved leave
// is immutable.
func (s *Service) ResolveLeave(ctx context.Context, approverID, leaveID uuid.UUID, status model.LeaveStatus) (*model.LeaveRequest, error) {
	if status != model.LeaveStatusApproved && status != model.LeaveStatusRejected {
		return nil, apperrors.Validation("status", "must be approved or rejected")
	}
	leave, err := s.repo.GetLeave(ctx, leaveID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("leave request", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !workflow.Leave.Can(string(leave.Status), string(status)) {
		return nil, apperrors.IllegalTransition("leave request", string(leave.Status), string(status))
	}

	leave.Status = status
	leave.ApprovedBy = &approverID
	leave.UpdatedAt = s.clock()
	if err := s.repo.UpdateLeave(ctx, leave); err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}

// CancelLeave deletes the doctor's own leave while still pending.
func (s *Service) CancelLeave(ctx context.Context, doctorID, leaveID uuid.UUID) error {
	leave, err := s.repo.GetLeave(ctx, leaveID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("leave request", err)
		}
		return apperrors.Internal(err)
	}
	if leave.DoctorID != doctorID {
		return apperrors.Authorization("leave request belongs to another doctor")
	}
	if leave.Status != model.LeaveStatusPending {
		return apperrors.IllegalTransition("leave request", string(leave.Status), "cancelled")
	}
	if err := s.repo.DeleteLeave(ctx, leaveID, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("leave request", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
