package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

// StudentServiceParams groups the dependencies of StudentService.
type StudentServiceParams struct {
	Store    *store.Store
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// StudentService implements the student dashboard and score submission.
type StudentService struct {
	store    *store.Store
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewStudentService constructs a StudentService.
func NewStudentService(params StudentServiceParams) *StudentService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &StudentService{
		store:    params.Store,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   params.Logger,
		cacheTTL: params.CacheTTL,
	}
}

// VisibleAssessments returns the assessments relevant to the student in
// insertion order.
func (s *StudentService) VisibleAssessments(studentID string) []models.Assessment {
	return visibleAssessments(s.store.Snapshot().Domain, studentID)
}

func visibleAssessments(domain store.Domain, studentID string) []models.Assessment {
	all := domain.Assessments()
	visible := make([]models.Assessment, 0, len(all))
	for _, a := range all {
		if a.IsRelevantTo(studentID) {
			visible = append(visible, a)
		}
	}
	return visible
}

// ParseScore interprets raw score input as a whole number in [0,100].
func ParseScore(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, appErrors.MissingField("score")
	}
	score, err := strconv.Atoi(trimmed)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, appErrors.WithDetails(appErrors.ErrOutOfRange, "score", trimmed)
		}
		return 0, appErrors.WithDetails(appErrors.ErrNotANumber, "score", trimmed)
	}
	if score < models.MinScore || score > models.MaxScore {
		return 0, appErrors.WithDetails(appErrors.ErrOutOfRange, "score", score)
	}
	return score, nil
}

// SubmitScore records the active student's score for an assessment. Each
// grade cell can be written once.
func (s *StudentService) SubmitScore(ctx context.Context, assessmentID int64, raw dto.RawScore) (*models.Grade, error) {
	score, err := ParseScore(string(raw))
	if err != nil {
		s.metrics.RecordScoreSubmission(appErrors.FromError(err).Code)
		return nil, err
	}

	var grade models.Grade
	snap, err := s.store.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		if err := requireRole(current.Session, models.RoleStudent); err != nil {
			return current, err
		}
		studentID := current.Session.Identity.ExternalID
		assessment, ok := current.Domain.Assessment(assessmentID)
		if !ok || !assessment.IsRelevantTo(studentID) {
			return current, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		if _, graded := current.Domain.Grades().Score(assessmentID, studentID); graded {
			return current, appErrors.ErrAlreadyGraded
		}
		grade = models.Grade{AssessmentID: assessmentID, StudentID: studentID, Score: score}
		current.Domain = current.Domain.WithGrade(assessmentID, studentID, score)
		return current, nil
	})
	if err != nil {
		s.metrics.RecordScoreSubmission(appErrors.FromError(err).Code)
		return nil, err
	}

	if snap.Version > 0 {
		s.cache.PurgeDashboards(ctx, snap.Version-1)
	}
	s.metrics.RecordScoreSubmission("ok")
	s.logger.Info("score submitted",
		zap.Int64("assessment_id", grade.AssessmentID),
		zap.String("student_id", grade.StudentID),
		zap.Int("score", grade.Score),
	)
	return &grade, nil
}

// Dashboard returns the active student's lessons and assessments with their
// grade status. The boolean reports a cache hit.
func (s *StudentService) Dashboard(ctx context.Context) (*dto.StudentDashboard, bool, error) {
	snap := s.store.Snapshot()
	if err := requireRole(snap.Session, models.RoleStudent); err != nil {
		return nil, false, err
	}
	studentID := snap.Session.Identity.ExternalID
	key := DashboardKey("student", snap.Version, studentID)

	var cached dto.StudentDashboard
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	visible := visibleAssessments(snap.Domain, studentID)
	items := make([]dto.StudentAssessment, 0, len(visible))
	for _, a := range visible {
		item := dto.StudentAssessment{Assessment: a, Status: models.GradeStatusPending}
		if score, ok := snap.Domain.Grades().Score(a.ID, studentID); ok {
			sc := score
			item.Status = models.GradeStatusGraded
			item.Score = &sc
		}
		items = append(items, item)
	}

	result := &dto.StudentDashboard{
		StudentID:   studentID,
		Lessons:     snap.Domain.Lessons(),
		Assessments: items,
	}
	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	return result, false, nil
}
