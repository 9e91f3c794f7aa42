package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/middleware"
	"github.com/ttc-bicumbi/portal/internal/models"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func testContext(method, target string, body string, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, rec
}

type fakeSessionSrv struct {
	loginReq  dto.LoginRequest
	loginErr  error
	loggedOut bool
}

func (f *fakeSessionSrv) Login(_ context.Context, req dto.LoginRequest) (*dto.SessionResponse, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.SessionResponse{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		Identity:  models.Identity{Role: models.RoleTeacher},
		View:      models.ViewTeacherDashboard,
	}, nil
}

func (f *fakeSessionSrv) EnterAsGuest(context.Context) (*dto.SessionResponse, error) {
	return &dto.SessionResponse{Token: "guest", ExpiresAt: time.Now().Add(time.Hour), Identity: models.GuestIdentity(), View: models.ViewHome}, nil
}

func (f *fakeSessionSrv) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeSessionSrv) Current() dto.SessionState {
	return dto.SessionState{View: models.ViewWelcome}
}

func TestSessionHandlerLoginAcceptsFormAndSetsCookie(t *testing.T) {
	srv := &fakeSessionSrv{}
	h := NewSessionHandler(srv, CookieConfig{Name: "portal_session"})

	form := url.Values{"identifier": {"teacher@ttc.rw"}, "secret": {"password"}}
	c, rec := testContext(http.MethodPost, "/session/login", form.Encode(), "application/x-www-form-urlencoded")
	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher@ttc.rw", srv.loginReq.Identifier)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "portal_session=tok")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "HttpOnly")
}

func TestSessionHandlerLoginFailure(t *testing.T) {
	srv := &fakeSessionSrv{loginErr: appErrors.ErrInvalidCredentials}
	h := NewSessionHandler(srv, CookieConfig{Name: "portal_session"})

	c, rec := testContext(http.MethodPost, "/session/login", `{"identifier":"x","secret":"y"}`, "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, rec).Error.Code)
}

func TestSessionHandlerLogoutClearsCookie(t *testing.T) {
	srv := &fakeSessionSrv{}
	h := NewSessionHandler(srv, CookieConfig{Name: "portal_session"})

	c, rec := testContext(http.MethodPost, "/session/logout", "", "")
	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, srv.loggedOut)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

type fakeViewSrv struct {
	current models.View
	err     error
}

func (f *fakeViewSrv) Navigate(context.Context, string) (models.View, error) {
	return f.current, f.err
}
func (f *fakeViewSrv) Views() []dto.ViewInfo { return nil }
func (f *fakeViewSrv) Page(string) (dto.Page, error) {
	return dto.Page{}, appErrors.ErrNotFound
}

func TestViewHandlerNavigateRoleRequired(t *testing.T) {
	h := NewViewHandler(&fakeViewSrv{current: models.ViewHome, err: appErrors.RoleRequired("teacher")})

	c, rec := testContext(http.MethodPost, "/views/teacher-dashboard", "", "")
	c.Params = gin.Params{{Key: "view", Value: "teacher-dashboard"}}
	h.Navigate(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "ROLE_REQUIRED", env.Error.Code)
	assert.Equal(t, "login", env.Meta["prompt"])
	assert.Equal(t, "home", env.Meta["view"])
}

func TestViewHandlerNavigateSuccess(t *testing.T) {
	h := NewViewHandler(&fakeViewSrv{current: models.ViewForum})

	c, rec := testContext(http.MethodPost, "/views/forum", "", "")
	c.Params = gin.Params{{Key: "view", Value: "forum"}}
	h.Navigate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var nav dto.NavigationResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &nav))
	assert.Equal(t, models.ViewForum, nav.View)
}

type fakeTeacherSrv struct {
	lessonReq dto.LessonRequest
	deleted   int64
	dashHit   bool
}

func (f *fakeTeacherSrv) AddLesson(_ context.Context, req dto.LessonRequest) (*models.Lesson, error) {
	f.lessonReq = req
	return &models.Lesson{ID: 1, Title: req.Title, ClassName: req.ClassName, Description: req.Description}, nil
}
func (f *fakeTeacherSrv) CreateAssessment(context.Context, dto.AssessmentRequest) (*models.Assessment, error) {
	return nil, appErrors.MissingField("name")
}
func (f *fakeTeacherSrv) DeleteAssessment(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}
func (f *fakeTeacherSrv) Lessons() []models.Lesson         { return nil }
func (f *fakeTeacherSrv) Assessments() []models.Assessment { return nil }
func (f *fakeTeacherSrv) Dashboard(context.Context) (*dto.TeacherDashboard, bool, error) {
	return &dto.TeacherDashboard{}, f.dashHit, nil
}
func (f *fakeTeacherSrv) GradeSheet(context.Context, int64) (*dto.GradeSheet, error) {
	return nil, appErrors.ErrNotFound
}

func TestTeacherHandlerCreateLessonFromForm(t *testing.T) {
	srv := &fakeTeacherSrv{}
	h := NewTeacherHandler(srv, nil)

	form := url.Values{"title": {"Fractions"}, "class_name": {"P5"}, "description": {"Intro"}}
	c, rec := testContext(http.MethodPost, "/teacher/lessons", form.Encode(), "application/x-www-form-urlencoded")
	h.CreateLesson(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "P5", srv.lessonReq.ClassName)
}

func TestTeacherHandlerCreateAssessmentMissingField(t *testing.T) {
	h := NewTeacherHandler(&fakeTeacherSrv{}, nil)
	c, rec := testContext(http.MethodPost, "/teacher/assessments", `{"class_name":"S4"}`, "application/json")
	h.CreateAssessment(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "MISSING_FIELD", env.Error.Code)
	assert.Equal(t, "name", env.Error.Details["field"])
}

func TestTeacherHandlerDeleteParsesID(t *testing.T) {
	srv := &fakeTeacherSrv{}
	h := NewTeacherHandler(srv, nil)

	c, rec := testContext(http.MethodDelete, "/teacher/assessments/42", "", "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.DeleteAssessment(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 42, srv.deleted)

	c, rec = testContext(http.MethodDelete, "/teacher/assessments/abc", "", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.DeleteAssessment(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherHandlerDashboardCacheMeta(t *testing.T) {
	h := NewTeacherHandler(&fakeTeacherSrv{dashHit: true}, nil)
	c, rec := testContext(http.MethodGet, "/teacher/dashboard", "", "")
	h.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec).Meta["cache_hit"])
}

type fakeStudentSrv struct {
	raw       dto.RawScore
	studentID string
	err       error
}

func (f *fakeStudentSrv) VisibleAssessments(studentID string) []models.Assessment {
	f.studentID = studentID
	return []models.Assessment{}
}
func (f *fakeStudentSrv) SubmitScore(_ context.Context, id int64, raw dto.RawScore) (*models.Grade, error) {
	f.raw = raw
	if f.err != nil {
		return nil, f.err
	}
	return &models.Grade{AssessmentID: id, StudentID: "S123", Score: 85}, nil
}
func (f *fakeStudentSrv) Dashboard(context.Context) (*dto.StudentDashboard, bool, error) {
	return &dto.StudentDashboard{}, false, nil
}

func TestStudentHandlerSubmitScore(t *testing.T) {
	srv := &fakeStudentSrv{}
	h := NewStudentHandler(srv)

	c, rec := testContext(http.MethodPost, "/student/assessments/1/score", `{"score":85}`, "application/json")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.SubmitScore(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, dto.RawScore("85"), srv.raw)

	srv.err = appErrors.ErrAlreadyGraded
	c, rec = testContext(http.MethodPost, "/student/assessments/1/score", "score=90", "application/x-www-form-urlencoded")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.SubmitScore(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.RawScore("90"), srv.raw)
}

func TestStudentHandlerAssessmentsUsesIdentity(t *testing.T) {
	srv := &fakeStudentSrv{}
	h := NewStudentHandler(srv)

	c, rec := testContext(http.MethodGet, "/student/assessments", "", "")
	c.Set(middleware.ContextIdentityKey, models.Identity{Role: models.RoleStudent, ExternalID: "S123"})
	h.Assessments(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "S123", srv.studentID)
}

type fakeExportSrv struct{}

func (fakeExportSrv) ResolveGradeExport(_ context.Context, token string) (*dto.ExportFile, error) {
	if token != "good" {
		return nil, appErrors.ErrUnauthorized
	}
	return &dto.ExportFile{Filename: "grades-1.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Student,Score\n")}, nil
}

func TestExportHandlerDownload(t *testing.T) {
	h := NewExportHandler(fakeExportSrv{})

	c, rec := testContext(http.MethodGet, "/exports/grades?token=good", "", "")
	h.DownloadGrades(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="grades-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Student,Score\n", rec.Body.String())

	c, rec = testContext(http.MethodGet, "/exports/grades", "", "")
	h.DownloadGrades(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
