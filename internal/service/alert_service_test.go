package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

type fakeAlertRepo struct {
	mu        sync.Mutex
	rows      map[string]models.AnalyticsAlert
	upsertErr error
	loseRace  bool
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{rows: map[string]models.AnalyticsAlert{}}
}

func (r *fakeAlertRepo) Upsert(_ context.Context, alert *models.AnalyticsAlert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	existing, ok := r.rows[alert.ID]
	if ok {
		existing.Severity = alert.Severity
		existing.CurrentValue = alert.CurrentValue
		existing.Message = alert.Message
		r.rows[alert.ID] = existing
		return false, nil
	}
	r.rows[alert.ID] = *alert
	return true, nil
}

func (r *fakeAlertRepo) List(_ context.Context, filter models.AlertFilter) ([]models.AnalyticsAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalyticsAlert
	for _, a := range r.rows {
		if a.MadrasahID != filter.MadrasahID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAlertRepo) FindByID(_ context.Context, id string) (*models.AnalyticsAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r *fakeAlertRepo) UpdateStatus(_ context.Context, alert *models.AnalyticsAlert, from models.AlertStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[alert.ID]
	if !ok || current.Status != from || r.loseRace {
		return false, nil
	}
	r.rows[alert.ID] = *alert
	return true, nil
}

type stubEvaluator struct {
	alerts []models.AnalyticsAlert
	err    error
	window *models.TimeRange
}

func (e *stubEvaluator) Alerts(_ context.Context, _ string, requested *models.TimeRange) ([]models.AnalyticsAlert, error) {
	e.window = requested
	return e.alerts, e.err
}

type recordingPublisher struct {
	mu      sync.Mutex
	raised  []string
	changed []models.AlertStatus
	err     error
}

func (p *recordingPublisher) PublishAlertRaised(_ context.Context, alert models.AnalyticsAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raised = append(p.raised, alert.ID)
	return p.err
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, alert models.AnalyticsAlert, _ models.AlertStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, alert.Status)
	return p.err
}

func sampleAlert(id string) models.AnalyticsAlert {
	return models.AnalyticsAlert{
		ID:         id,
		MadrasahID: "m-1",
		Type:       models.AlertOvercapacity,
		Severity:   models.SeverityHigh,
		Status:     models.AlertStatusActive,
		EntityType: models.EntityClass,
		EntityID:   "c-1",
	}
}

func newAlertServiceUnderTest(evaluator AlertEvaluator) (*AlertService, *fakeAlertRepo, *recordingPublisher) {
	repo := newFakeAlertRepo()
	pub := &recordingPublisher{}
	svc := NewAlertService(repo, evaluator, pub, 1, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC) }
	return svc, repo, pub
}

func TestAlertServiceRefreshPublishesOnlyNewAlerts(t *testing.T) {
	evaluator := &stubEvaluator{alerts: []models.AnalyticsAlert{sampleAlert("a-1"), sampleAlert("a-2")}}
	svc, repo, pub := newAlertServiceUnderTest(evaluator)

	result, err := svc.Refresh(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Evaluated)
	assert.Equal(t, 2, result.Inserted)
	require.NotNil(t, evaluator.window)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), evaluator.window.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), evaluator.window.From)

	_, err = svc.UpdateStatus(context.Background(), "m-1", "a-1", models.AlertStatusAcknowledged)
	require.NoError(t, err)

	result, err = svc.Refresh(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.ElementsMatch(t, []string{"a-1", "a-2"}, pub.raised)
	assert.Equal(t, models.AlertStatusAcknowledged, repo.rows["a-1"].Status)
}

func TestAlertServiceRefreshErrors(t *testing.T) {
	svc, _, _ := newAlertServiceUnderTest(&stubEvaluator{err: appErrors.ErrCriticalFetch})
	_, err := svc.Refresh(context.Background(), "m-1")
	assert.True(t, errors.Is(err, appErrors.ErrCriticalFetch))

	svc, repo, _ := newAlertServiceUnderTest(&stubEvaluator{alerts: []models.AnalyticsAlert{sampleAlert("a-1")}})
	repo.upsertErr = errors.New("db down")
	_, err = svc.Refresh(context.Background(), "m-1")
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAlertServiceRefreshToleratesPublisherFailure(t *testing.T) {
	svc, _, pub := newAlertServiceUnderTest(&stubEvaluator{alerts: []models.AnalyticsAlert{sampleAlert("a-1")}})
	pub.err = errors.New("broker unavailable")

	result, err := svc.Refresh(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestAlertServiceStatusLifecycle(t *testing.T) {
	svc, repo, pub := newAlertServiceUnderTest(&stubEvaluator{})
	repo.rows["a-1"] = sampleAlert("a-1")
	ctx := context.Background()

	acked, err := svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusAcknowledged)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusAcknowledged, acked.Status)
	require.NotNil(t, acked.AcknowledgedAt)
	assert.Nil(t, acked.ResolvedAt)

	_, err = svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusAcknowledged)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	resolved, err := svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.AcknowledgedAt)

	_, err = svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusAcknowledged)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	assert.Equal(t, []models.AlertStatus{models.AlertStatusAcknowledged, models.AlertStatusResolved}, pub.changed)
}

func TestAlertServiceUpdateStatusRejections(t *testing.T) {
	svc, repo, pub := newAlertServiceUnderTest(&stubEvaluator{})
	repo.rows["a-1"] = sampleAlert("a-1")
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusActive)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateStatus(ctx, "m-1", "missing", models.AlertStatusResolved)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.UpdateStatus(ctx, "m-2", "a-1", models.AlertStatusResolved)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	repo.loseRace = true
	_, err = svc.UpdateStatus(ctx, "m-1", "a-1", models.AlertStatusResolved)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	assert.Equal(t, models.AlertStatusActive, repo.rows["a-1"].Status)
	assert.Empty(t, pub.changed)
}

func TestAlertServiceListFiltersByStatus(t *testing.T) {
	svc, repo, _ := newAlertServiceUnderTest(&stubEvaluator{})
	repo.rows["a-1"] = sampleAlert("a-1")
	resolved := sampleAlert("a-2")
	resolved.Status = models.AlertStatusResolved
	repo.rows["a-2"] = resolved
	other := sampleAlert("a-3")
	other.MadrasahID = "m-2"
	repo.rows["a-3"] = other

	all, err := svc.List(context.Background(), "m-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := models.AlertStatusResolved
	filtered, err := svc.List(context.Background(), "m-1", &status)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a-2", filtered[0].ID)
}
