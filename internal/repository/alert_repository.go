package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

const alertColumns = `id, madrasah_id, type, severity, status, threshold_value, current_value, entity_type, entity_id,
        affected_ids, message, range_from, range_to, created_at, updated_at, acknowledged_at, resolved_at`

// AlertRepository persists analytics alerts.
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository constructs an AlertRepository.
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Upsert inserts the alert or refreshes its measured values. Status and lifecycle
// timestamps of an existing row are left untouched. The boolean is true when a new
// row was created.
func (r *AlertRepository) Upsert(ctx context.Context, alert *models.AnalyticsAlert) (bool, error) {
	now := time.Now().UTC()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = now
	}
	alert.UpdatedAt = now
	if alert.Status == "" {
		alert.Status = models.AlertStatusActive
	}

	const query = `INSERT INTO analytics_alerts (id, madrasah_id, type, severity, status, threshold_value, current_value,
        entity_type, entity_id, affected_ids, message, range_from, range_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (id) DO UPDATE SET severity = EXCLUDED.severity, threshold_value = EXCLUDED.threshold_value,
        current_value = EXCLUDED.current_value, affected_ids = EXCLUDED.affected_ids, message = EXCLUDED.message,
        updated_at = EXCLUDED.updated_at
        RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := r.db.QueryRowxContext(ctx, query,
		alert.ID, alert.MadrasahID, alert.Type, alert.Severity, alert.Status, alert.ThresholdValue, alert.CurrentValue,
		alert.EntityType, alert.EntityID, alert.AffectedIDs, alert.Message, alert.RangeFrom, alert.RangeTo,
		alert.CreatedAt, alert.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert alert: %w", err)
	}
	return inserted, nil
}

// List returns persisted alerts matching the filter, newest first.
func (r *AlertRepository) List(ctx context.Context, filter models.AlertFilter) ([]models.AnalyticsAlert, error) {
	args := []interface{}{filter.MadrasahID}
	conditions := []string{"madrasah_id = $1"}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := fmt.Sprintf("SELECT %s FROM analytics_alerts WHERE %s ORDER BY created_at DESC, id LIMIT %d",
		alertColumns, strings.Join(conditions, " AND "), limit)

	var alerts []models.AnalyticsAlert
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// FindByID fetches one alert; a missing row yields sql.ErrNoRows.
func (r *AlertRepository) FindByID(ctx context.Context, id string) (*models.AnalyticsAlert, error) {
	query := "SELECT " + alertColumns + " FROM analytics_alerts WHERE id = $1"
	var alert models.AnalyticsAlert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &alert, nil
}

// UpdateStatus writes the alert's lifecycle fields if its stored status still equals
// from. It reports false when another writer moved the alert first.
func (r *AlertRepository) UpdateStatus(ctx context.Context, alert *models.AnalyticsAlert, from models.AlertStatus) (bool, error) {
	alert.UpdatedAt = time.Now().UTC()
	const query = `UPDATE analytics_alerts SET status = $1, acknowledged_at = $2, resolved_at = $3, updated_at = $4
        WHERE id = $5 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, alert.Status, alert.AcknowledgedAt, alert.ResolvedAt, alert.UpdatedAt, alert.ID, from)
	if err != nil {
		return false, fmt.Errorf("update alert status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update alert status: %w", err)
	}
	return affected == 1, nil
}
