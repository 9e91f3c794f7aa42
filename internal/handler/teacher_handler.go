package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/pkg/response"
)

type teacherService interface {
	AddLesson(ctx context.Context, req dto.LessonRequest) (*models.Lesson, error)
	CreateAssessment(ctx context.Context, req dto.AssessmentRequest) (*models.Assessment, error)
	DeleteAssessment(ctx context.Context, id int64) error
	Lessons() []models.Lesson
	Assessments() []models.Assessment
	Dashboard(ctx context.Context) (*dto.TeacherDashboard, bool, error)
	GradeSheet(ctx context.Context, id int64) (*dto.GradeSheet, error)
}

type exportLinkService interface {
	GradeExportLink(ctx context.Context, assessmentID int64, format string) (*dto.ExportLink, error)
}

// TeacherHandler exposes the teacher dashboard.
type TeacherHandler struct {
	service teacherService
	exports exportLinkService
}

// NewTeacherHandler constructs a TeacherHandler.
func NewTeacherHandler(svc teacherService, exports exportLinkService) *TeacherHandler {
	return &TeacherHandler{service: svc, exports: exports}
}

// Dashboard godoc
// @Summary Teacher dashboard
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/dashboard [get]
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	board, hit, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, withCacheMeta(c, hit))
}

// Lessons godoc
// @Summary List lessons
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/lessons [get]
func (h *TeacherHandler) Lessons(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Lessons())
}

// CreateLesson godoc
// @Summary Add a lesson
// @Tags Teacher
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.LessonRequest true "Lesson"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/lessons [post]
func (h *TeacherHandler) CreateLesson(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	lesson, err := h.service.AddLesson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Assessments godoc
// @Summary List assessments
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/assessments [get]
func (h *TeacherHandler) Assessments(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Assessments())
}

// CreateAssessment godoc
// @Summary Publish an assessment
// @Description assigned_to is a comma separated list of student identifiers, or "all".
// @Tags Teacher
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.AssessmentRequest true "Assessment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/assessments [post]
func (h *TeacherHandler) CreateAssessment(c *gin.Context) {
	var req dto.AssessmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	assessment, err := h.service.CreateAssessment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assessment)
}

// DeleteAssessment godoc
// @Summary Delete an assessment
// @Description Deleting an unknown id succeeds without changes.
// @Tags Teacher
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 204
// @Router /teacher/assessments/{id} [delete]
func (h *TeacherHandler) DeleteAssessment(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteAssessment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GradeSheet godoc
// @Summary Grades recorded for an assessment
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/assessments/{id}/grades [get]
func (h *TeacherHandler) GradeSheet(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sheet, err := h.service.GradeSheet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet)
}

// ExportLink godoc
// @Summary Signed download link for a grade sheet
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Param id path int true "Assessment ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/assessments/{id}/grades/export-link [get]
func (h *TeacherHandler) ExportLink(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.exports.GradeExportLink(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}
