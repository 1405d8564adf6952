package appointment

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/appointment"
	"github.com/careloop/clinic-api/internal/service/careteam"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service  *appointment.Service
	careteam *careteam.Service
}

func NewHandler(service *appointment.Service, careteam *careteam.Service) *Handler {
	return &Handler{service: service, careteam: careteam}
}

// Book creates an appointment for the authenticated patient.
func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	booked, err := h.service.Book(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, booked)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	p := handler.Principal(c)
	switch p.Role {
	case model.RolePatient:
		if apt.PatientID != p.ProfileID {
			c.Error(apperrors.Authorization("appointment belongs to another patient"))
			return
		}
	case model.RoleDoctor:
		if apt.DoctorID != p.ProfileID {
			c.Error(apperrors.Authorization("appointment belongs to another doctor"))
			return
		}
	}
	httputil.OK(c, apt)
}

// ListMine lists the authenticated patient's appointments.
func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)
	status := model.AppointmentStatus(c.Query("status"))

	appointments, err := h.service.ListForPatient(c.Request.Context(), p.ProfileID, status)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, appointments)
}

// ListForDoctor lists appointments in the acting doctor's scope. Nurses with
// no active assignment get an empty scope, not an error.
func (h *Handler) ListForDoctor(c *gin.Context) {
	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		httputil.OK(c, gin.H{"appointments": []*model.Appointment{}, "warning": "no active care-team assignment"})
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			c.Error(apperrors.Validation("from", "must be YYYY-MM-DD"))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			c.Error(apperrors.Validation("to", "must be YYYY-MM-DD"))
			return
		}
	}

	appointments, err := h.service.ListForDoctor(c.Request.Context(), doctorID, model.AppointmentStatus(c.Query("status")), from, to)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, appointments)
}

// Patients lists the acting doctor's patient roster, derived from
// appointment history.
func (h *Handler) Patients(c *gin.Context) {
	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		httputil.OK(c, gin.H{"patients": []*model.PatientProfile{}, "warning": "no active care-team assignment"})
		return
	}

	patients, err := h.service.Patients(c.Request.Context(), doctorID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, patients)
}

// Cancel routes to the patient or doctor-scoped cancellation per role.
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	p := handler.Principal(c)
	if p.Role == model.RolePatient {
		apt, err := h.service.CancelByPatient(c.Request.Context(), p.ProfileID, id)
		if err != nil {
			c.Error(err)
			return
		}
		httputil.OK(c, apt)
		return
	}

	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperrors.Authorization("no active care-team assignment"))
		return
	}
	apt, err := h.service.CancelByDoctor(c.Request.Context(), doctorID, id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, apt)
}

// Complete marks an appointment done within the acting doctor's scope.
func (h *Handler) Complete(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(middleware.BindError(err))
		return
	}

	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperrors.Authorization("no active care-team assignment"))
		return
	}
	apt, err := h.service.Complete(c.Request.Context(), doctorID, id, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, apt)
}

func (h *Handler) NoShow(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperrors.Authorization("no active care-team assignment"))
		return
	}
	apt, err := h.service.NoShow(c.Request.Context(), doctorID, id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, apt)
}
