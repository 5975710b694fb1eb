package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

// AlertRepository persists evaluated alerts.
type AlertRepository interface {
	Upsert(ctx context.Context, alert *models.AnalyticsAlert) (bool, error)
	List(ctx context.Context, filter models.AlertFilter) ([]models.AnalyticsAlert, error)
	FindByID(ctx context.Context, id string) (*models.AnalyticsAlert, error)
	UpdateStatus(ctx context.Context, alert *models.AnalyticsAlert, from models.AlertStatus) (bool, error)
}

// AlertEvaluator produces fresh alerts for a madrasah.
type AlertEvaluator interface {
	Alerts(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.AnalyticsAlert, error)
}

// AlertEventPublisher announces alert lifecycle changes.
type AlertEventPublisher interface {
	PublishAlertRaised(ctx context.Context, alert models.AnalyticsAlert) error
	PublishStatusChanged(ctx context.Context, alert models.AnalyticsAlert, from models.AlertStatus) error
}

// RefreshResult summarises one refresh pass.
type RefreshResult struct {
	MadrasahID string           `json:"madrasah_id"`
	Range      models.TimeRange `json:"range"`
	Evaluated  int              `json:"evaluated"`
	Inserted   int              `json:"inserted"`
}

// AlertService persists engine output and manages the acknowledge/resolve lifecycle.
type AlertService struct {
	repo        AlertRepository
	evaluator   AlertEvaluator
	publisher   AlertEventPublisher
	logger      *zap.Logger
	rangeMonths int
	now         func() time.Time
}

// NewAlertService constructs an alert service. publisher may be nil.
func NewAlertService(repo AlertRepository, evaluator AlertEvaluator, publisher AlertEventPublisher, rangeMonths int, logger *zap.Logger) *AlertService {
	if rangeMonths <= 0 {
		rangeMonths = 12
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		repo:        repo,
		evaluator:   evaluator,
		publisher:   publisher,
		logger:      logger,
		rangeMonths: rangeMonths,
		now:         time.Now,
	}
}

// RefreshWindow is the trailing window ending at the latest UTC midnight. Aligning to
// the day keeps alert ids stable across refreshes within one day.
func (s *AlertService) RefreshWindow() models.TimeRange {
	end := truncateDay(s.now())
	return models.TimeRange{From: end.AddDate(0, -s.rangeMonths, 0), To: end}
}

// Refresh evaluates the madrasah and upserts the result. Existing rows keep their status.
func (s *AlertService) Refresh(ctx context.Context, madrasahID string) (RefreshResult, error) {
	window := s.RefreshWindow()
	result := RefreshResult{MadrasahID: madrasahID, Range: window}

	alerts, err := s.evaluator.Alerts(ctx, madrasahID, &window)
	if err != nil {
		return result, err
	}
	result.Evaluated = len(alerts)

	for i := range alerts {
		alert := alerts[i]
		inserted, err := s.repo.Upsert(ctx, &alert)
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist alert")
		}
		if !inserted {
			continue
		}
		result.Inserted++
		if s.publisher != nil {
			if err := s.publisher.PublishAlertRaised(ctx, alert); err != nil {
				s.logger.Warn("publish alert raised", zap.String("alert_id", alert.ID), zap.Error(err))
			}
		}
	}

	s.logger.Info("alerts refreshed",
		zap.String("madrasah_id", madrasahID),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("inserted", result.Inserted))
	return result, nil
}

// List returns persisted alerts of the madrasah, optionally filtered by status.
func (s *AlertService) List(ctx context.Context, madrasahID string, status *models.AlertStatus) ([]models.AnalyticsAlert, error) {
	alerts, err := s.repo.List(ctx, models.AlertFilter{MadrasahID: madrasahID, Status: status})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list alerts")
	}
	return alerts, nil
}

// UpdateStatus moves an alert to acknowledged or resolved and stamps the transition time.
func (s *AlertService) UpdateStatus(ctx context.Context, madrasahID, id string, target models.AlertStatus) (*models.AnalyticsAlert, error) {
	if target != models.AlertStatusAcknowledged && target != models.AlertStatusResolved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be acknowledged or resolved")
	}

	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load alert")
	}
	if madrasahID != "" && alert.MadrasahID != madrasahID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
	}

	from := alert.Status
	if !from.CanTransitionTo(target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move alert from %s to %s", from, target))
	}

	now := s.now().UTC()
	alert.Status = target
	switch target {
	case models.AlertStatusAcknowledged:
		alert.AcknowledgedAt = &now
	case models.AlertStatusResolved:
		alert.ResolvedAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, alert, from)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update alert status")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "alert status changed concurrently")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatusChanged(ctx, *alert, from); err != nil {
			s.logger.Warn("publish alert status change", zap.String("alert_id", alert.ID), zap.Error(err))
		}
	}
	return alert, nil
}
