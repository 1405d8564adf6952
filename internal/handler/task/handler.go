package task

import (
	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/handler"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/task"
	"github.com/careloop/clinic-api/pkg/httputil"
)

type Handler struct {
	service *task.Service
}

func NewHandler(service *task.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTaskRequest
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

func (h *Handler) ListCreated(c *gin.Context) {
	p := handler.Principal(c)
	tasks, err := h.service.ListForDoctor(c.Request.Context(), p.ProfileID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, tasks)
}

// ListAssigned lists the tasks assigned to the authenticated nurse or lab
// technician.
func (h *Handler) ListAssigned(c *gin.Context) {
	p := handler.Principal(c)
	tasks, err := h.service.ListForAssignee(c.Request.Context(), p.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, tasks)
}

// UpdateStatus advances a task. Assignees start and complete; the owning
// doctor may apply any declared transition including cancellation.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.BindError(err))
		return
	}

	p := handler.Principal(c)
	var updated *model.Task
	var err error
	if p.Role == model.RoleDoctor {
		updated, err = h.service.AdvanceByDoctor(c.Request.Context(), p.ProfileID, id, req.Status)
	} else {
		updated, err = h.service.AdvanceByAssignee(c.Request.Context(), p.UserID, id, req.Status)
	}
	if err != nil {
		c.Error(err)
		return
	}
	httputil.OK(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := handler.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := handler.Principal(c)
	if err := h.service.Delete(c.Request.Context(), p.ProfileID, id); err != nil {
		c.Error(err)
		return
	}
	httputil.NoContent(c)
}
