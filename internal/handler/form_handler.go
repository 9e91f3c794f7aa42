package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type formService interface {
	SendMessage(ctx context.Context, req dto.MessageRequest) (string, error)
	SubmitApplication(ctx context.Context, req dto.ApplicationRequest) (string, error)
}

// FormHandler accepts the communication and application forms.
type FormHandler struct {
	service formService
}

// NewFormHandler constructs a FormHandler.
func NewFormHandler(svc formService) *FormHandler {
	return &FormHandler{service: svc}
}

// SendMessage godoc
// @Summary Send a message from the communication hub
// @Tags Pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.MessageRequest true "Message"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pages/communication/messages [post]
func (h *FormHandler) SendMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	notice, err := h.service.SendMessage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, notice)
}

// SubmitApplication godoc
// @Summary Submit an online application
// @Tags Pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.ApplicationRequest true "Application"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pages/apply/applications [post]
func (h *FormHandler) SubmitApplication(c *gin.Context) {
	var req dto.ApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	notice, err := h.service.SubmitApplication(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, notice)
}
