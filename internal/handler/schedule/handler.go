package schedule

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/schedule"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) AddSchedule(c *gin.Context) {
	var req model.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	created, err := h.service.AddSchedule(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	p := handler.Principal(c)
	schedules, err := h.service.ListSchedules(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, schedules)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := handler.Principal(c)
	if err := h.service.DeleteSchedule(c.Request.Context(), p.ProfileID, id); err != nil {
		c.Error(err)
		return
	}
	httputil.NoContent(c)
}

func (h *Handler) AddDateSlot(c *gin.Context) {
	var req model.CreateDateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	created, err := h.service.AddDateSlot(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) ListDateSlots(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.Error(apperrors.Validation("date", "must be YYYY-MM-DD"))
		return
	}

	p := handler.Principal(c)
	slots, err := h.service.ListDateSlots(c.Request.Context(), p.ProfileID, date)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, slots)
}

func (h *Handler) DeleteDateSlot(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := handler.Principal(c)
	if err := h.service.DeleteDateSlot(c.Request.Context(), p.ProfileID, id); err != nil {
		c.Error(err)
		return
	}
	httputil.NoContent(c)
}

// Availability is the public read: a doctor's open windows for a date.
func (h *Handler) Availability(c *gin.Context) {
	doctorID, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.Error(apperrors.Validation("date", "must be YYYY-MM-DD"))
		return
	}

	intervals, err := h.service.Availability(c.Request.Context(), doctorID, date)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, gin.H{"doctor_id": doctorID, "date": c.Query("date"), "open": intervals})
}

func (h *Handler) RequestLeave(c *gin.Context) {
	var req model.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	leave, err := h.service.RequestLeave(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, leave)
}

func (h *Handler) ListLeaves(c *gin.Context) {
	p := handler.Principal(c)
	leaves, err := h.service.ListLeaves(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, leaves)
}

func (h *Handler) CancelLeave(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := handler.Principal(c)
	if err := h.service.CancelLeave(c.Request.Context(), p.ProfileID, id); err != nil {
		c.Error(err)
		return
	}
	httputil.NoContent(c)
}

// ListPendingLeaves is the approver's queue.
func (h *Handler) ListPendingLeaves(c *gin.Context) {
	leaves, err := h.service.ListPendingLeaves(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, leaves)
}

// ResolveLeave approves or rejects a pending leave.
func (h *Handler) ResolveLeave(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status model.LeaveStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	leave, err := h.service.ResolveLeave(c.Request.Context(), p.UserID, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, leave)
}
