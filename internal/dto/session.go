package dto

import (
	"time"

	"github.com/ttc-bicumbi/portal/internal/models"
)

// LoginRequest carries the login form.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Secret     string `json:"secret" form:"secret"`
}

// SessionResponse is returned when an identity enters the portal.
type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  models.Identity `json:"identity"`
	View      models.View     `json:"view"`
}

// SessionState describes the portal session without secrets.
type SessionState struct {
	Entered  bool             `json:"entered"`
	View     models.View      `json:"view"`
	Identity *models.Identity `json:"identity,omitempty"`
}
