package prescription

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/prescription"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	created, err := h.service.Create(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	prescription, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	p := handler.Principal(c)
	switch p.Role {
	case model.RolePatient:
		if prescription.PatientID != p.ProfileID {
			c.Error(apperrors.Authorization("prescription belongs to another patient"))
			return
		}
	case model.RoleDoctor:
		if prescription.DoctorID != p.ProfileID {
			c.Error(apperrors.Authorization("prescription belongs to another doctor"))
			return
		}
	}

	items, err := h.service.ListItems(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, gin.H{"prescription": prescription, "items": items})
}

func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)
	prescriptions, err := h.service.ListForPatient(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, prescriptions)
}

func (h *Handler) ListAuthored(c *gin.Context) {
	p := handler.Principal(c)
	prescriptions, err := h.service.ListForDoctor(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, prescriptions)
}

func (h *Handler) AddItem(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.AddPrescriptionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	item, err := h.service.AddItem(c.Request.Context(), p.ProfileID, id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, item)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := handler.UUIDParam(c, "itemID")
	if !ok {
		return
	}

	p := handler.Principal(c)
	if err := h.service.RemoveItem(c.Request.Context(), p.ProfileID, id, itemID); err != nil {
		c.Error(err)
		return
	}
	httputil.NoContent(c)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	p := handler.Principal(c)
	prescription, err := h.service.Deactivate(c.Request.Context(), p.ProfileID, id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, prescription)
}

// ListMedicines is the inventory view, cached at the route level.
func (h *Handler) ListMedicines(c *gin.Context) {
	var filters model.MedicineFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	medicines, err := h.service.ListMedicines(c.Request.Context(), &filters)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, medicines)
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	medicine, err := h.service.GetMedicine(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, medicine)
}
