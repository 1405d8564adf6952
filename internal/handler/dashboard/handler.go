package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/appointment"
	"github.com/careloop/clinic-api/internal/service/billing"
	"github.com/careloop/clinic-api/internal/service/careteam"
	"github.com/careloop/clinic-api/internal/service/prescription"
	"github.com/careloop/clinic-api/internal/service/task"
	"github.com/careloop/clinic-api/pkg/httputil"
)

// Handler assembles the role-specific landing views.
type Handler struct {
	appointments  *appointment.Service
	tasks         *task.Service
	bills         *billing.Service
	prescriptions *prescription.Service
	careteam      *careteam.Service
	clock         func() time.Time
}

func NewHandler(
	appointments *appointment.Service,
	tasks *task.Service,
	bills *billing.Service,
	prescriptions *prescription.Service,
	careteam *careteam.Service,
) *Handler {
	return &Handler{
		appointments:  appointments,
		tasks:         tasks,
		bills:         bills,
		prescriptions: prescriptions,
		careteam:      careteam,
		clock:         time.Now,
	}
}

// Doctor shows today's scheduled appointments and open tasks. Nurses see the
// same view delegated through their active assignment.
func (h *Handler) Doctor(c *gin.Context) {
	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		httputil.OK(c, gin.H{"warning": "no active care-team assignment"})
		return
	}

	today := model.DateOnly(h.clock())
	appointments, err := h.appointments.ListForDoctor(c.Request.Context(), doctorID, model.AppointmentStatusScheduled, today, today)
	if err != nil {
		c.Error(err)
		return
	}
	tasks, err := h.tasks.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		c.Error(err)
		return
	}
	open := tasks[:0]
	for _, t := range tasks {
		if t.Status == model.TaskStatusPending || t.Status == model.TaskStatusInProgress {
			open = append(open, t)
		}
	}

	httputil.OK(c, gin.H{
		"doctor_id":          doctorID,
		"appointments_today": appointments,
		"open_tasks":         open,
	})
}

// Patient shows upcoming appointments, active prescriptions and unpaid bills.
func (h *Handler) Patient(c *gin.Context) {
	p := handler.Principal(c)

	appointments, err := h.appointments.ListForPatient(c.Request.Context(), p.ProfileID, model.AppointmentStatusScheduled)
	if err != nil {
		c.Error(err)
		return
	}
	prescriptions, err := h.prescriptions.ListForPatient(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	now := h.clock()
	active := prescriptions[:0]
	for _, rx := range prescriptions {
		if rx.Active(now) {
			active = append(active, rx)
		}
	}
	unpaid, err := h.bills.ListBillsForPatient(c.Request.Context(), p.ProfileID, model.BillStatusPending)
	if err != nil {
		c.Error(err)
		return
	}
	overdue, err := h.bills.ListBillsForPatient(c.Request.Context(), p.ProfileID, model.BillStatusOverdue)
	if err != nil {
		c.Error(err)
		return
	}

	httputil.OK(c, gin.H{
		"upcoming_appointments": appointments,
		"active_prescriptions":  active,
		"pending_bills":         unpaid,
		"overdue_bills":         overdue,
	})
}
