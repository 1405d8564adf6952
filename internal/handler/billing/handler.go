package billing

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/billing"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GenerateForPrescription(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	bill, err := h.service.GenerateForPrescription(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, bill)
}

func (h *Handler) GenerateForAppointment(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	bill, err := h.service.GenerateForAppointment(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, bill)
}

// Estimate suggests a prescription bill amount before generation.
func (h *Handler) Estimate(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	estimate, err := h.service.Estimate(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, estimate)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.service.GetBill(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	p := handler.Principal(c)
	if p.Role == model.RolePatient && bill.PatientID != p.ProfileID {
		c.Error(apperrors.Authorization("bill belongs to another patient"))
		return
	}
	httputil.OK(c, bill)
}

// ListMine lists the patient's bills with overdue derived at read time.
func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)
	bills, err := h.service.ListBillsForPatient(c.Request.Context(), p.ProfileID, model.BillStatus(c.Query("status")))
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, bills)
}

func (h *Handler) Pay(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	bill, err := h.service.Pay(c.Request.Context(), p.ProfileID, id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, bill)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.service.CancelBill(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, bill)
}

func (h *Handler) CreateInsurance(c *gin.Context) {
	var req model.CreateInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	insurance, err := h.service.CreateInsurance(c.Request.Context(), p.ProfileID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, insurance)
}

func (h *Handler) ListInsurances(c *gin.Context) {
	p := handler.Principal(c)
	insurances, err := h.service.ListInsurancesForPatient(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, insurances)
}

func (h *Handler) SubmitClaim(c *gin.Context) {
	billID, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	claim, err := h.service.SubmitClaim(c.Request.Context(), p.ProfileID, billID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.Created(c, claim)
}

func (h *Handler) ListClaims(c *gin.Context) {
	billID, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}

	claims, err := h.service.ListClaimsForBill(c.Request.Context(), billID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, claims)
}

// AdvanceClaim is the insurer's processing endpoint.
func (h *Handler) AdvanceClaim(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	claim, err := h.service.AdvanceClaim(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, claim)
}
