package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/authz"
	"github.com/careloop/clinic-api/pkg/auth"
	"github.com/careloop/clinic-api/pkg/httputil"
)

const ContextPrincipal = "principal"

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and stores the principal in the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		principal := &model.Principal{
			UserID:    claims.UserID,
			Role:      model.Role(claims.Role),
			ProfileID: claims.ProfileID,
			Email:     claims.Email,
		}
		if !principal.Role.Valid() {
			abortUnauthorized(c, "unknown role")
			return
		}
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireAction rejects principals whose role lacks the capability. Runs
// before any other validation and fails closed.
func (m *AuthMiddleware) RequireAction(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil || !authz.Can(p, action) {
			c.Abort()
			httputil.Error(c, http.StatusForbidden, "authorization", "role is not allowed to perform this action", "")
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route to the listed roles.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p != nil {
			for _, role := range roles {
				if p.Role == role {
					c.Next()
					return
				}
			}
		}
		c.Abort()
		httputil.Error(c, http.StatusForbidden, "authorization", "role is not allowed on this route", "")
	}
}

// Principal returns the authenticated principal, or nil outside an
// authenticated route.
func Principal(c *gin.Context) *model.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Principal)
	return p
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Abort()
	httputil.Error(c, http.StatusUnauthorized, "authorization", message, "")
}
