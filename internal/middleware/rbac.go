package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/models"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

// PromptLogin is the meta hint telling clients to show the login form.
const PromptLogin = "login"

// RequireRole gates a route on the active identity's role. Must run after Session.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if identity.Role != role {
			response.Error(c, appErrors.RoleRequired(string(role)), map[string]interface{}{"prompt": PromptLogin})
			c.Abort()
			return
		}
		c.Next()
	}
}
