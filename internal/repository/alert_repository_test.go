package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

var alertRowColumns = []string{"id", "madrasah_id", "type", "severity", "status", "threshold_value", "current_value", "entity_type", "entity_id",
	"affected_ids", "message", "range_from", "range_to", "created_at", "updated_at", "acknowledged_at", "resolved_at"}

func sampleAlert() *models.AnalyticsAlert {
	return &models.AnalyticsAlert{
		ID:             "a-1",
		MadrasahID:     "m-1",
		Type:           models.AlertOvercapacity,
		Severity:       models.SeverityHigh,
		ThresholdValue: 100,
		CurrentValue:   110,
		EntityType:     models.EntityClass,
		EntityID:       "c-1",
		AffectedIDs:    []string{"c-1"},
		Message:        "class over capacity",
		RangeFrom:      testWindow.From,
		RangeTo:        testWindow.To,
	}
}

func TestAlertRepositoryUpsertKeepsStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlertRepository(db)

	mock.ExpectQuery("INSERT INTO analytics_alerts (.+) ON CONFLICT \\(id\\) DO UPDATE SET severity = EXCLUDED.severity").
		WithArgs("a-1", "m-1", models.AlertOvercapacity, models.SeverityHigh, models.AlertStatusActive, 100.0, 110.0,
			models.EntityClass, "c-1", sqlmock.AnyArg(), "class over capacity", testWindow.From, testWindow.To, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	alert := sampleAlert()
	inserted, err := repo.Upsert(context.Background(), alert)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, models.AlertStatusActive, alert.Status)
	assert.False(t, alert.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertRepositoryUpsertExisting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlertRepository(db)

	mock.ExpectQuery("INSERT INTO analytics_alerts").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	inserted, err := repo.Upsert(context.Background(), sampleAlert())
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlertRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM analytics_alerts WHERE madrasah_id = \\$1 AND status = \\$2 ORDER BY created_at DESC, id LIMIT 100").
		WithArgs("m-1", models.AlertStatusActive).
		WillReturnRows(sqlmock.NewRows(alertRowColumns).
			AddRow("a-1", "m-1", "overcapacity", "high", "active", 100.0, 110.0, "class", "c-1", "{c-1}", "msg", now, now, now, now, nil, nil))

	status := models.AlertStatusActive
	alerts, err := repo.List(context.Background(), models.AlertFilter{MadrasahID: "m-1", Status: &status})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, []string{"c-1"}, []string(alerts[0].AffectedIDs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlertRepository(db)

	mock.ExpectQuery("FROM analytics_alerts WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(alertRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertRepositoryUpdateStatusCompareAndSet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlertRepository(db)

	alert := sampleAlert()
	alert.Status = models.AlertStatusAcknowledged
	ack := time.Now().UTC()
	alert.AcknowledgedAt = &ack

	mock.ExpectExec("UPDATE analytics_alerts SET status = \\$1").
		WithArgs(models.AlertStatusAcknowledged, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), "a-1", models.AlertStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE analytics_alerts SET status = \\$1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), alert, models.AlertStatusActive)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(context.Background(), alert, models.AlertStatusActive)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
