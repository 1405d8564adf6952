// Package handler holds shared helpers for the HTTP handlers.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// UUIDParam parses a path parameter as a UUID, attaching a validation error
// on failure.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(apperrors.Validation(name, "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// Principal returns the authenticated principal; routes behind Authenticate
// always have one.
func Principal(c *gin.Context) *model.Principal {
	return middleware.Principal(c)
}

// DoctorScopeResolver resolves the doctor a principal acts for: doctors act
// for themselves, nurses through their active care-team assignment.
type DoctorScopeResolver interface {
	ActingDoctor(ctx context.Context, nurseID uuid.UUID) (*model.DoctorProfile, error)
}

// DoctorScope returns the doctor profile id the principal acts within. The
// second return is false when a nurse has no active assignment; callers
// surface that as an empty scope, not an error.
func DoctorScope(c *gin.Context, resolver DoctorScopeResolver) (uuid.UUID, bool, error) {
	p := Principal(c)
	switch p.Role {
	case model.RoleDoctor:
		return p.ProfileID, true, nil
	case model.RoleNurse:
		doctor, err := resolver.ActingDoctor(c.Request.Context(), p.ProfileID)
		if err != nil {
			return uuid.Nil, false, err
		}
		if doctor == nil {
			return uuid.Nil, false, nil
		}
		return doctor.ID, true, nil
	default:
		return uuid.Nil, false, apperrors.Authorization("route requires a doctor-scoped principal")
	}
}
