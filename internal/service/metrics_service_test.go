package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceExposesDomainCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/session", http.StatusOK, 20*time.Millisecond)
	m.RecordSessionEntry("teacher", true)
	m.RecordSessionEntry("", false)
	m.RecordNavigation("teacher-dashboard", false)
	m.RecordMutation("lesson", "create")
	m.RecordScoreSubmission("ok")
	m.RecordScoreSubmission("OUT_OF_RANGE")

	snap := m.Snapshot()
	assert.EqualValues(t, 1, snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.5)
	assert.EqualValues(t, 1, snap.Logins)
	assert.EqualValues(t, 1, snap.LoginFailures)
	assert.EqualValues(t, 1, snap.ScoresSubmitted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(body, `portal_session_entries_total{outcome="rejected",role="unknown"} 1`))
	assert.True(t, strings.Contains(body, `portal_score_submissions_total{outcome="OUT_OF_RANGE"} 1`))
	assert.True(t, strings.Contains(body, `portal_records_total{action="create",kind="lesson"} 1`))
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordSessionEntry("guest", true)
	m.RecordScoreSubmission("ok")
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
