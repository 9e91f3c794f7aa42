package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

func newTeacherFixture(t *testing.T) (*TeacherService, *StudentService, *store.Store) {
	t.Helper()
	st := newTestStore()
	enterAs(t, st, teacherIdentity)
	teacher := NewTeacherService(TeacherServiceParams{Store: st, Metrics: NewMetricsService()})
	student := NewStudentService(StudentServiceParams{Store: st})
	return teacher, student, st
}

func algebraQuiz(assigned string) dto.AssessmentRequest {
	return dto.AssessmentRequest{
		Name:       "Algebra Quiz",
		ClassName:  "S4 Math",
		AssignedTo: assigned,
		Kind:       "quiz",
		DueDate:    "2024-12-01",
	}
}

func TestAddLessonAppendsOnce(t *testing.T) {
	svc, _, _ := newTeacherFixture(t)
	ctx := context.Background()

	first, err := svc.AddLesson(ctx, dto.LessonRequest{Title: "Fractions", ClassName: "P5", Description: "Intro"})
	require.NoError(t, err)
	second, err := svc.AddLesson(ctx, dto.LessonRequest{Title: " Decimals ", ClassName: "P5", Description: "Next"})
	require.NoError(t, err)
	assert.Equal(t, "Decimals", second.Title)
	assert.Greater(t, second.ID, first.ID)

	lessons := svc.Lessons()
	require.Len(t, lessons, 2)
	assert.Equal(t, *second, lessons[len(lessons)-1])
	count := 0
	for _, l := range lessons {
		if l.ID == second.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddLessonRequiresEveryField(t *testing.T) {
	svc, _, st := newTeacherFixture(t)
	before := st.Snapshot().Version

	cases := map[string]dto.LessonRequest{
		"title":       {ClassName: "P5", Description: "d"},
		"class_name":  {Title: "t", ClassName: "   ", Description: "d"},
		"description": {Title: "t", ClassName: "P5"},
	}
	for field, req := range cases {
		_, err := svc.AddLesson(context.Background(), req)
		appErr := appErrors.FromError(err)
		require.NotNil(t, appErr, field)
		assert.Equal(t, "MISSING_FIELD", appErr.Code, field)
		assert.Equal(t, field, appErr.Details["field"])
	}
	assert.Equal(t, before, st.Snapshot().Version)
	assert.Empty(t, svc.Lessons())
}

func TestTeacherMutationsRequireTeacher(t *testing.T) {
	svc, _, st := newTeacherFixture(t)
	enterAs(t, st, studentIdentity)

	_, err := svc.AddLesson(context.Background(), dto.LessonRequest{Title: "t", ClassName: "c", Description: "d"})
	assert.Equal(t, "ROLE_REQUIRED", errCode(err))
	_, err = svc.CreateAssessment(context.Background(), algebraQuiz("all"))
	assert.Equal(t, "ROLE_REQUIRED", errCode(err))
	assert.Equal(t, "ROLE_REQUIRED", errCode(svc.DeleteAssessment(context.Background(), 1)))
}

func TestCreateAssessmentParsesAssignees(t *testing.T) {
	svc, _, _ := newTeacherFixture(t)

	req := algebraQuiz(" S123 , S124,,")
	req.Kind = ""
	a, err := svc.CreateAssessment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"S123", "S124"}, a.AssignedTo)
	assert.Equal(t, models.KindQuiz, a.Kind)
	assert.Equal(t, "2024-12-01", a.DueDate.String())

	_, err = svc.CreateAssessment(context.Background(), algebraQuiz(" , "))
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "MISSING_FIELD", appErr.Code)
	assert.Equal(t, "assigned_to", appErr.Details["field"])
}

func TestCreateAssessmentValidation(t *testing.T) {
	svc, _, _ := newTeacherFixture(t)

	bad := algebraQuiz("all")
	bad.Kind = "homework"
	_, err := svc.CreateAssessment(context.Background(), bad)
	assert.Equal(t, "VALIDATION_ERROR", errCode(err))

	bad = algebraQuiz("all")
	bad.DueDate = "01/12/2024"
	_, err = svc.CreateAssessment(context.Background(), bad)
	assert.Equal(t, "VALIDATION_ERROR", errCode(err))

	bad = algebraQuiz("all")
	bad.Name = ""
	_, err = svc.CreateAssessment(context.Background(), bad)
	assert.Equal(t, "MISSING_FIELD", errCode(err))

	upper := algebraQuiz("all")
	upper.Kind = "Exam"
	a, err := svc.CreateAssessment(context.Background(), upper)
	require.NoError(t, err)
	assert.Equal(t, models.KindExam, a.Kind)
}

func TestAssessmentForAllVisibleToEveryStudent(t *testing.T) {
	teacher, student, _ := newTeacherFixture(t)
	a, err := teacher.CreateAssessment(context.Background(), algebraQuiz("all"))
	require.NoError(t, err)

	for _, sid := range []string{"S123", "S999", "S000"} {
		visible := student.VisibleAssessments(sid)
		require.Len(t, visible, 1, sid)
		assert.Equal(t, a.ID, visible[0].ID)
	}
}

func TestAssessmentVisibilityScenario(t *testing.T) {
	teacher, student, _ := newTeacherFixture(t)
	a, err := teacher.CreateAssessment(context.Background(), algebraQuiz("S123"))
	require.NoError(t, err)
	other, err := teacher.CreateAssessment(context.Background(), algebraQuiz("S124"))
	require.NoError(t, err)

	visible := student.VisibleAssessments("S123")
	require.Len(t, visible, 1)
	assert.Equal(t, a.ID, visible[0].ID)
	assert.Empty(t, student.VisibleAssessments("S999"))
	assert.Equal(t, other.ID, student.VisibleAssessments("S124")[0].ID)
}

func TestDeleteAbsentAssessmentIsNoop(t *testing.T) {
	svc, _, st := newTeacherFixture(t)
	a, err := svc.CreateAssessment(context.Background(), algebraQuiz("all"))
	require.NoError(t, err)
	before := st.Snapshot()

	require.NoError(t, svc.DeleteAssessment(context.Background(), a.ID+999))
	assert.Equal(t, before.Version, st.Snapshot().Version)
	assert.Equal(t, before.Domain.Assessments(), svc.Assessments())
}

func TestDeleteAssessmentKeepsGrades(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	st := newTestStore()
	enterAs(t, st, teacherIdentity)
	teacher := NewTeacherService(TeacherServiceParams{Store: st, Logger: zap.New(core)})
	student := NewStudentService(StudentServiceParams{Store: st})

	a, err := teacher.CreateAssessment(context.Background(), algebraQuiz("all"))
	require.NoError(t, err)
	enterAs(t, st, studentIdentity)
	_, err = student.SubmitScore(context.Background(), a.ID, "85")
	require.NoError(t, err)
	enterAs(t, st, teacherIdentity)

	require.NoError(t, teacher.DeleteAssessment(context.Background(), a.ID))
	assert.Empty(t, teacher.Assessments())
	score, ok := st.Snapshot().Domain.Grades().Score(a.ID, "S123")
	assert.True(t, ok)
	assert.Equal(t, 85, score)

	warned := logs.FilterMessage("assessment deleted with recorded grades").All()
	require.Len(t, warned, 1)
	assert.EqualValues(t, 1, warned[0].ContextMap()["orphaned_grades"])

	_, err = teacher.GradeSheet(context.Background(), a.ID)
	assert.Equal(t, "NOT_FOUND", errCode(err))
}

func TestGradeSheetAverage(t *testing.T) {
	teacher, student, st := newTeacherFixture(t)
	a, err := teacher.CreateAssessment(context.Background(), algebraQuiz("all"))
	require.NoError(t, err)

	sheet, err := teacher.GradeSheet(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, sheet.Grades)
	assert.Nil(t, sheet.Average)

	enterAs(t, st, studentIdentity)
	_, err = student.SubmitScore(context.Background(), a.ID, "80")
	require.NoError(t, err)
	enterAs(t, st, models.Identity{Role: models.RoleStudent, ExternalID: "S124"})
	_, err = student.SubmitScore(context.Background(), a.ID, "90")
	require.NoError(t, err)

	sheet, err = teacher.GradeSheet(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Grades, 2)
	assert.Equal(t, "S123", sheet.Grades[0].StudentID)
	require.NotNil(t, sheet.Average)
	assert.InDelta(t, 85.0, *sheet.Average, 0.001)
}

func TestTeacherDashboardCache(t *testing.T) {
	repo := newMemoryCacheRepo()
	st := newTestStore()
	enterAs(t, st, teacherIdentity)
	cache := NewCacheService(repo, NewMetricsService(), 0, nil, true)
	svc := NewTeacherService(TeacherServiceParams{Store: st, Cache: cache})
	ctx := context.Background()

	_, hit, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	_, hit, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = svc.AddLesson(ctx, dto.LessonRequest{Title: "t", ClassName: "c", Description: "d"})
	require.NoError(t, err)
	assert.Empty(t, repo.entries)

	board, hit, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, board.Lessons, 1)
}
