package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

// errNoChange aborts a mutation that would leave the state as it is.
var errNoChange = errors.New("no change")

// TeacherServiceParams groups the dependencies of TeacherService.
type TeacherServiceParams struct {
	Store     *store.Store
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	CacheTTL  time.Duration
}

// TeacherService implements the teacher dashboard: lessons, assessments and grade sheets.
type TeacherService struct {
	store     *store.Store
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(params TeacherServiceParams) *TeacherService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Validator == nil {
		params.Validator = NewValidator()
	}
	return &TeacherService{
		store:     params.Store,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: params.Validator,
		logger:    params.Logger,
		cacheTTL:  params.CacheTTL,
	}
}

// AddLesson validates the form and appends a new lesson.
func (s *TeacherService) AddLesson(ctx context.Context, req dto.LessonRequest) (*models.Lesson, error) {
	trimAll(&req.Title, &req.ClassName, &req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	var lesson models.Lesson
	snap, err := s.store.Update(func(current store.Snapshot, nextID func() int64) (store.Snapshot, error) {
		if err := requireRole(current.Session, models.RoleTeacher); err != nil {
			return current, err
		}
		lesson = models.Lesson{
			ID:          nextID(),
			Title:       req.Title,
			ClassName:   req.ClassName,
			Description: req.Description,
		}
		current.Domain = current.Domain.WithLesson(lesson)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, snap.Version)
	s.metrics.RecordMutation("lesson", "create")
	s.logger.Info("lesson created", zap.Int64("lesson_id", lesson.ID), zap.String("class", lesson.ClassName))
	return &lesson, nil
}

// CreateAssessment validates the form and publishes a new assessment.
func (s *TeacherService) CreateAssessment(ctx context.Context, req dto.AssessmentRequest) (*models.Assessment, error) {
	trimAll(&req.Name, &req.ClassName, &req.AssignedTo, &req.Kind, &req.DueDate, &req.Instructions)
	req.Kind = strings.ToLower(req.Kind)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	assignees := models.ParseAssignees(req.AssignedTo)
	if len(assignees) == 0 {
		return nil, appErrors.MissingField("assigned_to")
	}
	kind := models.AssessmentKind(req.Kind)
	if kind == "" {
		kind = models.KindQuiz
	}
	due, err := models.ParseDate(req.DueDate)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due_date must be YYYY-MM-DD"), "field", "due_date")
	}

	var assessment models.Assessment
	snap, err := s.store.Update(func(current store.Snapshot, nextID func() int64) (store.Snapshot, error) {
		if err := requireRole(current.Session, models.RoleTeacher); err != nil {
			return current, err
		}
		assessment = models.Assessment{
			ID:           nextID(),
			Name:         req.Name,
			ClassName:    req.ClassName,
			AssignedTo:   assignees,
			Kind:         kind,
			DueDate:      due,
			Instructions: req.Instructions,
		}
		current.Domain = current.Domain.WithAssessment(assessment)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, snap.Version)
	s.metrics.RecordMutation("assessment", "create")
	s.logger.Info("assessment created",
		zap.Int64("assessment_id", assessment.ID),
		zap.String("kind", string(assessment.Kind)),
		zap.Strings("assigned_to", assessment.AssignedTo),
	)
	return &assessment, nil
}

// DeleteAssessment removes an assessment. Deleting an absent id is a no-op.
// Grades already recorded for the assessment are retained.
func (s *TeacherService) DeleteAssessment(ctx context.Context, id int64) error {
	var orphaned int
	snap, err := s.store.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		if err := requireRole(current.Session, models.RoleTeacher); err != nil {
			return current, err
		}
		domain, removed := current.Domain.WithoutAssessment(id)
		if !removed {
			return current, errNoChange
		}
		orphaned = domain.Grades().Count(id)
		current.Domain = domain
		return current, nil
	})
	if errors.Is(err, errNoChange) {
		s.logger.Debug("assessment delete skipped", zap.Int64("assessment_id", id))
		return nil
	}
	if err != nil {
		return err
	}

	s.afterMutation(ctx, snap.Version)
	s.metrics.RecordMutation("assessment", "delete")
	fields := []zap.Field{zap.Int64("assessment_id", id)}
	if orphaned > 0 {
		s.logger.Warn("assessment deleted with recorded grades", append(fields, zap.Int("orphaned_grades", orphaned))...)
	} else {
		s.logger.Info("assessment deleted", fields...)
	}
	return nil
}

// Lessons lists lessons in insertion order.
func (s *TeacherService) Lessons() []models.Lesson {
	return s.store.Snapshot().Domain.Lessons()
}

// Assessments lists assessments in insertion order.
func (s *TeacherService) Assessments() []models.Assessment {
	return s.store.Snapshot().Domain.Assessments()
}

// Dashboard returns the teacher dashboard. The boolean reports a cache hit.
func (s *TeacherService) Dashboard(ctx context.Context) (*dto.TeacherDashboard, bool, error) {
	snap := s.store.Snapshot()
	key := DashboardKey("teacher", snap.Version, "")

	var cached dto.TeacherDashboard
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	result := &dto.TeacherDashboard{
		Lessons:     snap.Domain.Lessons(),
		Assessments: snap.Domain.Assessments(),
	}
	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	return result, false, nil
}

// GradeSheet returns the grades recorded for an assessment.
func (s *TeacherService) GradeSheet(ctx context.Context, id int64) (*dto.GradeSheet, error) {
	domain := s.store.Snapshot().Domain
	assessment, ok := domain.Assessment(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
	}
	grades := domain.Grades().Row(id)
	sheet := &dto.GradeSheet{Assessment: assessment, Grades: grades}
	if len(grades) > 0 {
		total := 0
		for _, g := range grades {
			total += g.Score
		}
		avg := float64(total) / float64(len(grades))
		sheet.Average = &avg
	}
	return sheet, nil
}

func (s *TeacherService) afterMutation(ctx context.Context, version uint64) {
	if version > 0 {
		s.cache.PurgeDashboards(ctx, version-1)
	}
}

func requireRole(sess store.Session, role models.Role) error {
	if !sess.Entered() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "enter the portal first")
	}
	if sess.Role() != role {
		return appErrors.RoleRequired(string(role))
	}
	return nil
}
