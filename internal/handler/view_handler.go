package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/middleware"
	"github.com/ttc-bicumbi/portal/internal/models"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type viewService interface {
	Navigate(ctx context.Context, view string) (models.View, error)
	Views() []dto.ViewInfo
	Page(view string) (dto.Page, error)
}

// ViewHandler exposes the view router.
type ViewHandler struct {
	service viewService
}

// NewViewHandler constructs a ViewHandler.
func NewViewHandler(svc viewService) *ViewHandler {
	return &ViewHandler{service: svc}
}

// List godoc
// @Summary List navigable views
// @Tags Views
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /views [get]
func (h *ViewHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Views())
}

// Navigate godoc
// @Summary Navigate to a view
// @Description Dashboards require the matching role; a rejected request keeps the current view and asks the client to prompt for login.
// @Tags Views
// @Security BearerAuth
// @Produce json
// @Param view path string true "View name"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /views/{view} [post]
func (h *ViewHandler) Navigate(c *gin.Context) {
	view, err := h.service.Navigate(c.Request.Context(), c.Param("view"))
	if err != nil {
		if errors.Is(err, appErrors.ErrRoleRequired) {
			response.Error(c, err, map[string]interface{}{"prompt": middleware.PromptLogin, "view": view})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NavigationResponse{View: view})
}

// Page godoc
// @Summary Informational page summary
// @Tags Views
// @Security BearerAuth
// @Produce json
// @Param view path string true "View name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pages/{view} [get]
func (h *ViewHandler) Page(c *gin.Context) {
	page, err := h.service.Page(c.Param("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}
