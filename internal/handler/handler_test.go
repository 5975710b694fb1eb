package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madrasah-analytics-api/internal/middleware"
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	"github.com/noah-isme/madrasah-analytics-api/internal/service"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

type stubTokens map[string]*models.JWTClaims

func (s stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type fakeAnalytics struct {
	err         error
	hit         bool
	lastTenant  string
	lastRange   *models.TimeRange
	invalidated []string
}

func (f *fakeAnalytics) record(madrasahID string, r *models.TimeRange) {
	f.lastTenant = madrasahID
	f.lastRange = r
}

func (f *fakeAnalytics) Students(_ context.Context, madrasahID string, r *models.TimeRange) ([]models.StudentMetrics, bool, error) {
	f.record(madrasahID, r)
	return []models.StudentMetrics{{StudentID: "s-1"}}, f.hit, f.err
}

func (f *fakeAnalytics) Student(_ context.Context, madrasahID, id string, r *models.TimeRange) (*models.StudentMetrics, bool, error) {
	f.record(madrasahID, r)
	if id != "s-1" {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student not found or inactive")
	}
	return &models.StudentMetrics{StudentID: id}, f.hit, f.err
}

func (f *fakeAnalytics) Classes(_ context.Context, madrasahID string, r *models.TimeRange) ([]models.ClassMetrics, bool, error) {
	f.record(madrasahID, r)
	return []models.ClassMetrics{{ClassID: "c-1"}}, f.hit, f.err
}

func (f *fakeAnalytics) Teachers(_ context.Context, madrasahID string, r *models.TimeRange) ([]models.TeacherMetrics, bool, error) {
	f.record(madrasahID, r)
	return []models.TeacherMetrics{}, f.hit, f.err
}

func (f *fakeAnalytics) Program(_ context.Context, madrasahID string, r *models.TimeRange) (*models.ProgramMetrics, bool, error) {
	f.record(madrasahID, r)
	return &models.ProgramMetrics{TotalStudents: 3}, f.hit, f.err
}

func (f *fakeAnalytics) Report(_ context.Context, madrasahID string, r *models.TimeRange) (*models.AnalyticsReport, bool, error) {
	f.record(madrasahID, r)
	return &models.AnalyticsReport{MadrasahID: madrasahID, Degraded: []string{"communications"}}, f.hit, f.err
}

func (f *fakeAnalytics) Alerts(_ context.Context, madrasahID string, r *models.TimeRange) ([]models.AnalyticsAlert, error) {
	f.record(madrasahID, r)
	return nil, f.err
}

func (f *fakeAnalytics) Invalidate(_ context.Context, madrasahID string) error {
	f.invalidated = append(f.invalidated, madrasahID)
	return f.err
}

func (f *fakeAnalytics) SystemMetrics() models.AnalyticsSystemMetrics {
	return models.AnalyticsSystemMetrics{RequestsTotal: 7}
}

type fakeExports struct{}

func (fakeExports) Export(_ context.Context, madrasahID string, _ *models.TimeRange, view models.ExportView, format models.ExportFormat) (*service.ExportResult, error) {
	return &service.ExportResult{Filename: madrasahID + "_" + string(view) + "." + string(format), ContentType: format.ContentType(), Payload: []byte("a,b\n")}, nil
}

type fakeAlerts struct {
	err        error
	lastStatus *models.AlertStatus
}

func (f *fakeAlerts) List(_ context.Context, _ string, status *models.AlertStatus) ([]models.AnalyticsAlert, error) {
	f.lastStatus = status
	return nil, f.err
}

func (f *fakeAlerts) UpdateStatus(_ context.Context, madrasahID, id string, target models.AlertStatus) (*models.AnalyticsAlert, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalyticsAlert{ID: id, MadrasahID: madrasahID, Status: target}, nil
}

type pingErr struct{ err error }

func (p pingErr) Ping(context.Context) error { return p.err }

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type testServer struct {
	engine    *gin.Engine
	analytics *fakeAnalytics
	alerts    *fakeAlerts
}

func newTestServer(checks map[string]Pinger) *testServer {
	gin.SetMode(gin.TestMode)
	analytics := &fakeAnalytics{}
	alerts := &fakeAlerts{}
	tokens := stubTokens{
		"admin":   {Role: models.RoleAdmin, MadrasahID: "m-1"},
		"teacher": {Role: models.RoleTeacher, MadrasahID: "m-1"},
		"parent":  {Role: models.RoleParent, MadrasahID: "m-1"},
	}
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	RegisterRoutes(r, "/api/v1", tokens, Handlers{
		Analytics: NewAnalyticsHandler(analytics, fakeExports{}, nil),
		Alerts:    NewAlertHandler(alerts, nil),
		Metrics:   NewMetricsHandler(service.NewMetricsService(), checks),

		AnalyticsEnabled: true,
	})
	return &testServer{engine: r, analytics: analytics, alerts: alerts}
}

func (s *testServer) do(method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestAnalyticsRoutesScopeAndMeta(t *testing.T) {
	srv := newTestServer(nil)
	srv.analytics.hit = true

	rec, env := srv.do(http.MethodGet, "/api/v1/analytics/students?from=2024-03-01&to=2024-03-29", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
	assert.Equal(t, "m-1", srv.analytics.lastTenant)
	require.NotNil(t, srv.analytics.lastRange)
	assert.Equal(t, 2024, srv.analytics.lastRange.From.Year())
	assert.Equal(t, time.Date(2024, 3, 29, 23, 59, 59, 999999999, time.UTC), srv.analytics.lastRange.To)

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/program", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.analytics.lastRange)

	rec, env = srv.do(http.MethodGet, "/api/v1/analytics/report", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"communications"}, env.Meta["degraded"])

	rec, env = srv.do(http.MethodGet, "/api/v1/analytics/alerts", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestInvalidateCacheRoute(t *testing.T) {
	srv := newTestServer(nil)

	rec, _ := srv.do(http.MethodDelete, "/api/v1/analytics/cache", "teacher", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.analytics.invalidated)

	rec, env := srv.do(http.MethodDelete, "/api/v1/analytics/cache", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"madrasah_id":"m-1","invalidated":true}`, string(env.Data))
	assert.Equal(t, []string{"m-1"}, srv.analytics.invalidated)
}

func TestAnalyticsRoutesAuthorization(t *testing.T) {
	srv := newTestServer(nil)

	rec, _ := srv.do(http.MethodGet, "/api/v1/analytics/classes", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/classes", "parent", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/system", "teacher", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/system", "admin", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyticsRoutesErrorMapping(t *testing.T) {
	srv := newTestServer(nil)

	rec, env := srv.do(http.MethodGet, "/api/v1/analytics/students?from=not-a-date", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, env.Error.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/students/s-404", "admin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv.analytics.err = appErrors.ErrAnalyticsTimeout
	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/teachers", "admin", "")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	srv.analytics.err = appErrors.CloneWrap(appErrors.ErrCriticalFetch, errors.New("dial tcp"), "failed to load students")
	rec, env = srv.do(http.MethodGet, "/api/v1/analytics/classes", "admin", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "failed to load students", env.Error.Message)
}

func TestAnalyticsExport(t *testing.T) {
	srv := newTestServer(nil)

	rec, _ := srv.do(http.MethodGet, "/api/v1/analytics/export?view=classes&format=csv", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "m-1_classes.csv")
	assert.Equal(t, "a,b\n", rec.Body.String())

	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/export?view=classes&format=docx", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = srv.do(http.MethodGet, "/api/v1/analytics/export?format=csv", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertRoutes(t *testing.T) {
	srv := newTestServer(nil)

	rec, env := srv.do(http.MethodGet, "/api/v1/alerts?status=acknowledged", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))
	require.NotNil(t, srv.alerts.lastStatus)
	assert.Equal(t, models.AlertStatusAcknowledged, *srv.alerts.lastStatus)

	rec, _ = srv.do(http.MethodGet, "/api/v1/alerts?status=open", "teacher", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(http.MethodPatch, "/api/v1/alerts/a-1/status", "teacher", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = srv.do(http.MethodPatch, "/api/v1/alerts/a-1/status", "admin", `{"status":"resolved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var alert models.AnalyticsAlert
	require.NoError(t, json.Unmarshal(env.Data, &alert))
	assert.Equal(t, "a-1", alert.ID)
	assert.Equal(t, models.AlertStatusResolved, alert.Status)

	rec, _ = srv.do(http.MethodPatch, "/api/v1/alerts/a-1/status", "admin", `{"status":"active"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = srv.do(http.MethodPatch, "/api/v1/alerts/a-1/status", "admin", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	srv.alerts.err = appErrors.Clone(appErrors.ErrInvalidTransition, "cannot move alert from resolved to acknowledged")
	rec, _ = srv.do(http.MethodPatch, "/api/v1/alerts/a-1/status", "admin", `{"status":"acknowledged"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	srv.alerts.err = appErrors.Clone(appErrors.ErrNotFound, "alert not found")
	rec, _ = srv.do(http.MethodPatch, "/api/v1/alerts/zzz/status", "admin", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProbes(t *testing.T) {
	srv := newTestServer(map[string]Pinger{"database": pingErr{}, "redis": pingErr{}})
	rec, _ := srv.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = srv.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = srv.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv = newTestServer(map[string]Pinger{"database": pingErr{err: errors.New("connection refused")}})
	rec, _ = srv.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestAnalyticsFeatureGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, "/api/v1", stubTokens{}, Handlers{
		Analytics: NewAnalyticsHandler(&fakeAnalytics{}, nil, nil),
		Alerts:    NewAlertHandler(&fakeAlerts{}, nil),
		Metrics:   NewMetricsHandler(nil, nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/program", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
