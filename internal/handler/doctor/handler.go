package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/directory"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{service: service}
}

// Search is the doctor directory, filterable by name or specialization.
func (h *Handler) Search(c *gin.Context) {
	var filters model.DoctorFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	doctors, err := h.service.SearchDoctors(c.Request.Context(), &filters)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, doctors)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, doctor)
}
