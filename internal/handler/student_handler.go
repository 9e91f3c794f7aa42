package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type studentService interface {
	VisibleAssessments(studentID string) []models.Assessment
	SubmitScore(ctx context.Context, assessmentID int64, raw dto.RawScore) (*models.Grade, error)
	Dashboard(ctx context.Context) (*dto.StudentDashboard, bool, error)
}

// StudentHandler exposes the student dashboard.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Student
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	board, hit, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, withCacheMeta(c, hit))
}

// Assessments godoc
// @Summary Assessments assigned to the active student
// @Tags Student
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/assessments [get]
func (h *StudentHandler) Assessments(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.VisibleAssessments(identity.ExternalID))
}

// SubmitScore godoc
// @Summary Submit a score for an assessment
// @Description The score must be a whole number between 0 and 100 and can be submitted once.
// @Tags Student
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param payload body dto.ScoreRequest true "Score"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/assessments/{id}/score [post]
func (h *StudentHandler) SubmitScore(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ScoreRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	grade, err := h.service.SubmitScore(c.Request.Context(), id, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}
