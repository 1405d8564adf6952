package referral

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/referral"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *referral.Service
}

func NewHandler(service *referral.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateReferralRequest
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

func (h *Handler) ListOutgoing(c *gin.Context) {
	p := handler.Principal(c)
	referrals, err := h.service.ListOutgoing(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, referrals)
}

func (h *Handler) ListIncoming(c *gin.Context) {
	p := handler.Principal(c)
	referrals, err := h.service.ListIncoming(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, referrals)
}

// Respond accepts or declines a pending referral.
func (h *Handler) Respond(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status model.ReferralStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	updated, err := h.service.Respond(c.Request.Context(), p.ProfileID, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, updated)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	p := handler.Principal(c)
	updated, err := h.service.Complete(c.Request.Context(), p.ProfileID, id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, updated)
}
