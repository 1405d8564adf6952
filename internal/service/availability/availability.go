// Package availability resolves a doctor's bookable time windows for a
// calendar date from recurring schedules, date-specific slots and approved
// leave. Resolution is closed world: a doctor with no matching rows is
// unavailable.
package availability

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
)

// Overlaps reports whether two half-open intervals intersect. Intervals that
// only share an endpoint do not overlap.
func Overlaps(a, b model.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Source is the read surface the resolver needs.
type Source interface {
	ListDateSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.DateSlot, error)
	ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek string) ([]*model.WeeklySchedule, error)
	ListApprovedLeavesCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.LeaveRequest, error)
}

type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// OpenIntervals returns the doctor's open windows on the given date, sorted
// by start time. Approved leave covering the date blanks the whole day.
// When any date slots exist for the date they are authoritative; otherwise
// the weekly schedule for the date's weekday applies.
func (r *Resolver) OpenIntervals(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]model.Interval, error) {
	leaves, err := r.source.ListApprovedLeavesCovering(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if len(leaves) > 0 {
		return nil, nil
	}

	slots, err := r.source.ListDateSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		intervals := make([]model.Interval, 0, len(slots))
		for _, s := range slots {
			if s.IsAvailable {
				intervals = append(intervals, model.Interval{Start: s.StartTime, End: s.EndTime})
			}
		}
		return sorted(intervals), nil
	}

	schedules, err := r.source.ListSchedulesForDay(ctx, doctorID, date.Weekday().String())
	if err != nil {
		return nil, err
	}
	intervals := make([]model.Interval, 0, len(schedules))
	for _, s := range schedules {
		if s.IsAvailable {
			intervals = append(intervals, model.Interval{Start: s.StartTime, End: s.EndTime})
		}
	}
	return sorted(intervals), nil
}

// IsAvailableAt reports whether t falls inside any open interval on the date.
// Interval ends are exclusive, so a window's end time is not bookable.
func (r *Resolver) IsAvailableAt(ctx context.Context, doctorID uuid.UUID, date time.Time, t model.TimeOfDay) (bool, error) {
	intervals, err := r.OpenIntervals(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, iv := range intervals {
		if iv.Contains(t) {
			return true, nil
		}
	}
	return false, nil
}

func sorted(intervals []model.Interval) []model.Interval {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
	return intervals
}
