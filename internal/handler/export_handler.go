package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type exportDownloadService interface {
	ResolveGradeExport(ctx context.Context, token string) (*dto.ExportFile, error)
}

// ExportHandler serves signed downloads.
type ExportHandler struct {
	service exportDownloadService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportDownloadService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// DownloadGrades godoc
// @Summary Download a grade sheet through a signed link
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /exports/grades [get]
func (h *ExportHandler) DownloadGrades(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token required"))
		return
	}
	file, err := h.service.ResolveGradeExport(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
