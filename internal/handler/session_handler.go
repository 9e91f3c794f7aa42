package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.SessionResponse, error)
	EnterAsGuest(ctx context.Context) (*dto.SessionResponse, error)
	Logout(ctx context.Context) error
	Current() dto.SessionState
}

// CookieConfig controls the session cookie set on entry.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionHandler exposes login, guest entry and logout.
type SessionHandler struct {
	service sessionService
	cookie  CookieConfig
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc sessionService, cookie CookieConfig) *SessionHandler {
	return &SessionHandler{service: svc, cookie: cookie}
}

// Login godoc
// @Summary Log in with identifier and secret
// @Tags Session
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, bindError(err))
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setCookie(c, res)
	response.JSON(c, http.StatusOK, res)
}

// Guest godoc
// @Summary Continue as guest
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/guest [post]
func (h *SessionHandler) Guest(c *gin.Context) {
	res, err := h.service.EnterAsGuest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setCookie(c, res)
	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Leave the portal and return to the welcome screen
// @Tags Session
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	if h.cookie.Name != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	}
	response.NoContent(c)
}

// Current godoc
// @Summary Describe the current session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Current())
}

func (h *SessionHandler) setCookie(c *gin.Context, res *dto.SessionResponse) {
	if h.cookie.Name == "" {
		return
	}
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, res.Token, maxAge, "/", "", h.cookie.Secure, true)
}
