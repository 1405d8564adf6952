package careteam

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/careteam"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *careteam.Service
}

func NewHandler(service *careteam.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Assign(c *gin.Context) {
	var req model.AssignNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	assignment, err := h.service.Assign(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, assignment)
}

func (h *Handler) End(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	p := handler.Principal(c)
	assignment, err := h.service.End(c.Request.Context(), p.ProfileID, id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, assignment)
}

func (h *Handler) List(c *gin.Context) {
	p := handler.Principal(c)
	assignments, err := h.service.ListForDoctor(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, assignments)
}

// ActingDoctor reports the doctor the authenticated nurse currently acts
// for. The empty result is a warning state, not an error.
func (h *Handler) ActingDoctor(c *gin.Context) {
	p := handler.Principal(c)
	doctor, err := h.service.ActingDoctor(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	if doctor == nil {
		httputil.OK(c, gin.H{"doctor": nil, "warning": "no active care-team assignment"})
		return
	}
	httputil.OK(c, gin.H{"doctor": doctor})
}
