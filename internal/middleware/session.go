package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/models"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

const (
	// ContextIdentityKey stores the active models.Identity.
	ContextIdentityKey = "currentIdentity"
	// ContextClaimsKey stores the validated *models.SessionClaims.
	ContextClaimsKey = "sessionClaims"
)

type sessionValidator interface {
	ValidateToken(token string) (*models.SessionClaims, models.Identity, error)
}

// Session rejects requests that do not carry the token of the active
// session, either as a Bearer header or as the session cookie.
func Session(validator sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c, cookieName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, identity, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// OptionalSession attaches the identity when a valid token is present but
// never blocks the request.
func OptionalSession(validator sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c, cookieName)
		if err == nil {
			if claims, identity, err := validator.ValidateToken(token); err == nil {
				c.Set(ContextClaimsKey, claims)
				c.Set(ContextIdentityKey, identity)
			}
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity attached by Session.
func IdentityFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

func sessionToken(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrUnauthorized, "enter the portal first")
}
