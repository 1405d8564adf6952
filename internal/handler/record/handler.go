package record

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/careteam"
	"github.com/careloop/clinic-api/internal/service/record"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service  *record.Service
	careteam *careteam.Service
}

func NewHandler(service *record.Service, careteam *careteam.Service) *Handler {
	return &Handler{service: service, careteam: careteam}
}

// Create writes a medical record against a completed appointment.
func (h *Handler) Create(c *gin.Context) {
	appointmentID, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	created, err := h.service.CreateFromAppointment(c.Request.Context(), p.ProfileID, appointmentID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, created)
}

// Update amends a record the authenticated doctor authored.
func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	updated, err := h.service.Update(c.Request.Context(), p.ProfileID, id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, updated)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetForViewer(c.Request.Context(), handler.Principal(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, rec)
}

func (h *Handler) Treatment(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.GetForViewer(c.Request.Context(), handler.Principal(c), id); err != nil {
		c.Error(err)
		return
	}

	treatment, err := h.service.Treatment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, treatment)
}

// ListMine lists the authenticated patient's records.
func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)
	records, err := h.service.ListForPatient(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, records)
}

func (h *Handler) ListAuthored(c *gin.Context) {
	p := handler.Principal(c)
	records, err := h.service.ListForDoctor(c.Request.Context(), p.ProfileID, 0)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, records)
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req model.CreatePatientNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	note, err := h.service.CreateNote(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, note)
}

// ListNotes returns notes about a patient within the acting doctor's scope.
// The authoring doctor sees private notes; delegated nurses only shared ones.
func (h *Handler) ListNotes(c *gin.Context) {
	patientID, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	doctorID, ok, err := handler.DoctorScope(c, h.careteam)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		httputil.OK(c, gin.H{"notes": []*model.PatientNote{}, "warning": "no active care-team assignment"})
		return
	}

	p := handler.Principal(c)
	includePrivate := p.Role == model.RoleDoctor
	notes, err := h.service.ListNotes(c.Request.Context(), doctorID, patientID, includePrivate)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, notes)
}
