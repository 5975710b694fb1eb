package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

func TestMetricsServiceSnapshotAndExposition(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/analytics/program", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/analytics/program", http.StatusOK, 40*time.Millisecond)
	m.ObserveDBQuery("analytics_students", 5*time.Millisecond)
	m.ObserveContextLoad(100 * time.Millisecond)
	m.RecordFetchFailure("communications")
	m.RecordAlerts([]models.AnalyticsAlert{{Type: models.AlertOvercapacity, Severity: models.SeverityHigh}})

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 30.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.InDelta(t, 100.0, snapshot.AverageContextLoadMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.FetchFailures)
	assert.Equal(t, uint64(1), snapshot.AlertsEmitted)
	assert.Positive(t, snapshot.Goroutines)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `analytics_fetch_failures_total{collection="communications"} 1`)
	assert.Contains(t, body, `analytics_alerts_emitted_total{severity="high",type="overcapacity"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordFetchFailure("attendance")
	m.RecordAlerts(nil)
	assert.Equal(t, models.AnalyticsSystemMetrics{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
