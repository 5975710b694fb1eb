package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

func newTestLoader(src *fakeSources, timeout time.Duration, metrics *MetricsService) *ContextLoader {
	return NewContextLoader(src.sources(), ContextLoaderConfig{Timeout: timeout, DefaultRangeMonths: 1, Now: fixedNow}, metrics, zap.NewNop())
}

func TestContextLoaderBuildsClippedContext(t *testing.T) {
	snap := scenarioSnapshot()
	snap.Progress = append(snap.Progress, models.ProgressEntry{ID: "outside", StudentID: "s-01", Date: scenarioTo.AddDate(0, 0, 1), LessonType: models.LessonTypeSabaq})
	src := newFakeSources(snap)
	metrics := NewMetricsService()

	dc, err := newTestLoader(src, time.Second, metrics).LoadWindow(context.Background(), "m-1", scenarioWindow())
	require.NoError(t, err)

	assert.Equal(t, "m-1", dc.MadrasahID())
	assert.Len(t, dc.Students(), 10)
	assert.Len(t, dc.Progress(), 34)
	assert.Empty(t, dc.Degraded())
	for _, name := range []string{"students", "teachers", "classes", "progress", "juz_revisions", "sabaq_para", "attendance", "assignments", "submissions", "communications"} {
		assert.Equal(t, 1, src.count(name), name)
	}
	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.ContextLoads)
	assert.Equal(t, uint64(10), snapshot.DBQueryCount)
}

func TestContextLoaderDegradesOptionalCollections(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	src.errs["attendance"] = errors.New("relation attendance does not exist")
	src.errs["communications"] = errors.New("timeout")
	metrics := NewMetricsService()

	dc, err := newTestLoader(src, time.Second, metrics).LoadWindow(context.Background(), "m-1", scenarioWindow())
	require.NoError(t, err)

	assert.Equal(t, []string{"attendance", "communications"}, dc.Degraded())
	assert.Empty(t, dc.Attendance())
	assert.Len(t, dc.Students(), 10)
	assert.Equal(t, uint64(2), metrics.Snapshot().FetchFailures)

	students := NewStudentMetricsCalculator(DefaultPolicy()).Calculate(dc)
	assert.Nil(t, students[0].AttendanceRate)
}

func TestContextLoaderFailsOnCriticalCollection(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	src.errs["teachers"] = errors.New("connection refused")

	dc, err := newTestLoader(src, time.Second, nil).LoadWindow(context.Background(), "m-1", scenarioWindow())
	require.Error(t, err)
	assert.Nil(t, dc)
	assert.True(t, errors.Is(err, appErrors.ErrCriticalFetch))
	assert.Contains(t, err.Error(), "teachers")
}

func TestContextLoaderTimeout(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	src.delay["progress"] = 500 * time.Millisecond

	_, err := newTestLoader(src, 20*time.Millisecond, nil).LoadWindow(context.Background(), "m-1", scenarioWindow())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAnalyticsTimeout))
}

func TestContextLoaderTimeoutDoesNotWaitForStalledFetch(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	src.stall["progress"] = 600 * time.Millisecond
	loader := newTestLoader(src, 20*time.Millisecond, nil)

	start := time.Now()
	dc, err := loader.LoadWindow(context.Background(), "m-1", scenarioWindow())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, dc)
	assert.True(t, errors.Is(err, appErrors.ErrAnalyticsTimeout))
	assert.Less(t, elapsed, 300*time.Millisecond)

	start = time.Now()
	_, err = loader.LoadActivity(context.Background(), "m-1", scenarioWindow())
	assert.True(t, errors.Is(err, appErrors.ErrAnalyticsTimeout))
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestContextLoaderCriticalFailureDoesNotCountOptionalFailures(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	src.errs["students"] = errors.New("connection refused")
	src.delay["attendance"] = time.Second
	src.delay["communications"] = time.Second
	metrics := NewMetricsService()

	_, err := newTestLoader(src, 2*time.Second, metrics).LoadWindow(context.Background(), "m-1", scenarioWindow())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCriticalFetch))
	assert.Zero(t, metrics.Snapshot().FetchFailures)
}

func TestContextLoaderPassesThroughCallerCancellation(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(src, time.Second, nil).LoadWindow(ctx, "m-1", scenarioWindow())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContextLoaderNormalizesRange(t *testing.T) {
	loader := newTestLoader(newFakeSources(models.DataSnapshot{}), time.Second, nil)

	window, err := loader.NormalizeRange(nil)
	require.NoError(t, err)
	assert.Equal(t, scenarioNow, window.To)
	assert.Equal(t, scenarioNow.AddDate(0, -1, 0), window.From)

	_, err = loader.Load(context.Background(), "m-1", &models.TimeRange{From: scenarioTo, To: scenarioFrom})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidRange))
}

func TestContextLoaderLoadActivity(t *testing.T) {
	src := newFakeSources(scenarioSnapshot())
	activity, err := newTestLoader(src, time.Second, nil).LoadActivity(context.Background(), "m-1", scenarioWindow())
	require.NoError(t, err)
	assert.Len(t, activity, 10)

	src.errs["progress"] = errors.New("boom")
	_, err = newTestLoader(src, time.Second, nil).LoadActivity(context.Background(), "m-1", scenarioWindow())
	assert.Error(t, err)
}
