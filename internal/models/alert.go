package models

import (
	"time"

	"github.com/lib/pq"
)

// AlertType enumerates the rules evaluated by the alert engine.
type AlertType string

const (
	AlertMissedSessions         AlertType = "missed_sessions"
	AlertMemorizationPaceDrop   AlertType = "memorization_pace_drop"
	AlertAtRiskConcentration    AlertType = "at_risk_concentration"
	AlertOvercapacity           AlertType = "overcapacity"
	AlertExcessiveCancellations AlertType = "excessive_cancellations"
)

// AlertSeverity ranks alerts; critical is the most severe.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
	SeverityLow      AlertSeverity = "low"
)

// AlertStatus is the persisted lifecycle state of an alert.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// CanTransitionTo reports whether moving from s to target is a legal lifecycle step.
func (s AlertStatus) CanTransitionTo(target AlertStatus) bool {
	switch s {
	case AlertStatusActive:
		return target == AlertStatusAcknowledged || target == AlertStatusResolved
	case AlertStatusAcknowledged:
		return target == AlertStatusResolved
	default:
		return false
	}
}

// AlertEntityType names what an alert is about.
type AlertEntityType string

const (
	EntityStudent AlertEntityType = "student"
	EntityClass   AlertEntityType = "class"
	EntityTeacher AlertEntityType = "teacher"
	EntityProgram AlertEntityType = "program"
)

// AnalyticsAlert is a threshold breach found by the alert engine.
type AnalyticsAlert struct {
	ID             string          `db:"id" json:"id"`
	MadrasahID     string          `db:"madrasah_id" json:"madrasah_id"`
	Type           AlertType       `db:"type" json:"type"`
	Severity       AlertSeverity   `db:"severity" json:"severity"`
	Status         AlertStatus     `db:"status" json:"status"`
	ThresholdValue float64         `db:"threshold_value" json:"threshold_value"`
	CurrentValue   float64         `db:"current_value" json:"current_value"`
	EntityType     AlertEntityType `db:"entity_type" json:"entity_type"`
	EntityID       string          `db:"entity_id" json:"entity_id"`
	AffectedIDs    pq.StringArray  `db:"affected_ids" json:"affected_ids"`
	Message        string          `db:"message" json:"message"`
	RangeFrom      time.Time       `db:"range_from" json:"range_from"`
	RangeTo        time.Time       `db:"range_to" json:"range_to"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	AcknowledgedAt *time.Time      `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
}

// AlertFilter scopes persisted alert listings.
type AlertFilter struct {
	MadrasahID string
	Status     *AlertStatus
	Type       *AlertType
	Limit      int
}
