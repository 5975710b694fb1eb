package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// alertNamespace seeds deterministic alert ids so repeated evaluations of the same
// breach map to one persisted row.
var alertNamespace = uuid.MustParse("6f1f9f3e-4be5-4a3e-9a51-3c0b7d2f8e10")

// Comparator is the operator a metric is compared to a band threshold with.
type Comparator string

const (
	LessThan       Comparator = "<"
	LessOrEqual    Comparator = "<="
	GreaterThan    Comparator = ">"
	GreaterOrEqual Comparator = ">="
)

func (c Comparator) matches(value, threshold float64) bool {
	switch c {
	case LessThan:
		return value < threshold
	case LessOrEqual:
		return value <= threshold
	case GreaterThan:
		return value > threshold
	case GreaterOrEqual:
		return value >= threshold
	default:
		return false
	}
}

// ThresholdBand maps a comparison to a severity.
type ThresholdBand struct {
	Severity  models.AlertSeverity
	Op        Comparator
	Threshold float64
}

// AlertRule lists bands ordered from most to least severe; the first match wins.
type AlertRule struct {
	Type  models.AlertType
	Bands []ThresholdBand
}

func (r AlertRule) match(value float64) (ThresholdBand, bool) {
	for _, b := range r.Bands {
		if b.Op.matches(value, b.Threshold) {
			return b, true
		}
	}
	return ThresholdBand{}, false
}

// DefaultAlertRules is the stock threshold table.
func DefaultAlertRules() map[models.AlertType]AlertRule {
	return map[models.AlertType]AlertRule{
		models.AlertMissedSessions: {Type: models.AlertMissedSessions, Bands: []ThresholdBand{
			{Severity: models.SeverityCritical, Op: LessThan, Threshold: 60},
			{Severity: models.SeverityHigh, Op: LessThan, Threshold: 70},
			{Severity: models.SeverityMedium, Op: LessThan, Threshold: 80},
		}},
		models.AlertMemorizationPaceDrop: {Type: models.AlertMemorizationPaceDrop, Bands: []ThresholdBand{
			{Severity: models.SeverityCritical, Op: GreaterOrEqual, Threshold: 30},
			{Severity: models.SeverityHigh, Op: GreaterOrEqual, Threshold: 20},
			{Severity: models.SeverityMedium, Op: GreaterOrEqual, Threshold: 10},
			{Severity: models.SeverityLow, Op: GreaterThan, Threshold: 0},
		}},
		models.AlertAtRiskConcentration: {Type: models.AlertAtRiskConcentration, Bands: []ThresholdBand{
			{Severity: models.SeverityCritical, Op: GreaterOrEqual, Threshold: 50},
			{Severity: models.SeverityHigh, Op: GreaterOrEqual, Threshold: 30},
			{Severity: models.SeverityMedium, Op: GreaterOrEqual, Threshold: 20},
		}},
		models.AlertOvercapacity: {Type: models.AlertOvercapacity, Bands: []ThresholdBand{
			{Severity: models.SeverityCritical, Op: GreaterThan, Threshold: 120},
			{Severity: models.SeverityHigh, Op: GreaterThan, Threshold: 100},
			{Severity: models.SeverityMedium, Op: GreaterOrEqual, Threshold: 95},
		}},
		models.AlertExcessiveCancellations: {Type: models.AlertExcessiveCancellations, Bands: []ThresholdBand{
			{Severity: models.SeverityCritical, Op: GreaterOrEqual, Threshold: 30},
			{Severity: models.SeverityHigh, Op: GreaterOrEqual, Threshold: 20},
			{Severity: models.SeverityMedium, Op: GreaterOrEqual, Threshold: 10},
		}},
	}
}

// EvaluationInput is everything the engine looks at for one madrasah and window.
type EvaluationInput struct {
	MadrasahID string
	Range      models.TimeRange
	Students   []models.StudentMetrics
	Classes    []models.ClassMetrics
	Teachers   []models.TeacherMetrics
	Program    models.ProgramMetrics
}

// AlertEngine evaluates metrics against the threshold table. It holds no state
// between calls.
type AlertEngine struct {
	rules map[models.AlertType]AlertRule
}

// NewAlertEngine builds an engine; nil rules select DefaultAlertRules.
func NewAlertEngine(rules map[models.AlertType]AlertRule) *AlertEngine {
	if rules == nil {
		rules = DefaultAlertRules()
	}
	return &AlertEngine{rules: rules}
}

// Evaluate returns the alerts raised by in, most severe first. Null metrics are skipped.
func (e *AlertEngine) Evaluate(in EvaluationInput) []models.AnalyticsAlert {
	var alerts []models.AnalyticsAlert

	for _, s := range in.Students {
		if s.AttendanceRate == nil {
			continue
		}
		e.raise(&alerts, in, models.AlertMissedSessions, models.EntityStudent, s.StudentID, *s.AttendanceRate, []string{s.StudentID},
			fmt.Sprintf("%s attended %.1f%% of recorded sessions", s.Name, *s.AttendanceRate))
	}

	if in.Program.StagnantShare != nil {
		var stagnant []string
		for _, s := range in.Students {
			if s.Stagnant {
				stagnant = append(stagnant, s.StudentID)
			}
		}
		e.raise(&alerts, in, models.AlertMemorizationPaceDrop, models.EntityProgram, in.MadrasahID, *in.Program.StagnantShare, stagnant,
			fmt.Sprintf("%d of %d active students have stalled memorization", in.Program.StagnantStudents, in.Program.ActiveStudents))
	}

	for _, c := range in.Classes {
		if c.AtRiskShare != nil {
			var atRisk []string
			for _, s := range in.Students {
				if s.AtRisk && s.ClassID != nil && *s.ClassID == c.ClassID {
					atRisk = append(atRisk, s.StudentID)
				}
			}
			e.raise(&alerts, in, models.AlertAtRiskConcentration, models.EntityClass, c.ClassID, *c.AtRiskShare, atRisk,
				fmt.Sprintf("%d of %d students in %s are at risk", c.AtRiskCount, c.Enrolled, c.Name))
		}
		if c.CapacityUtilization != nil {
			e.raise(&alerts, in, models.AlertOvercapacity, models.EntityClass, c.ClassID, *c.CapacityUtilization, []string{c.ClassID},
				fmt.Sprintf("%s is at %.1f%% of capacity", c.Name, *c.CapacityUtilization))
		}
	}

	for _, t := range in.Teachers {
		if t.CancellationRate == nil {
			continue
		}
		e.raise(&alerts, in, models.AlertExcessiveCancellations, models.EntityTeacher, t.TeacherID, *t.CancellationRate, []string{t.TeacherID},
			fmt.Sprintf("%s cancelled %.1f%% of scheduled sessions", t.Name, *t.CancellationRate))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if ra, rb := severityRank(a.Severity), severityRank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.EntityID < b.EntityID
	})
	return alerts
}

func (e *AlertEngine) raise(out *[]models.AnalyticsAlert, in EvaluationInput, alertType models.AlertType, entityType models.AlertEntityType,
	entityID string, value float64, affected []string, message string) {
	rule, ok := e.rules[alertType]
	if !ok {
		return
	}
	band, ok := rule.match(value)
	if !ok {
		return
	}
	*out = append(*out, models.AnalyticsAlert{
		ID:             AlertID(alertType, entityType, entityID, in.MadrasahID, in.Range),
		MadrasahID:     in.MadrasahID,
		Type:           alertType,
		Severity:       band.Severity,
		Status:         models.AlertStatusActive,
		ThresholdValue: band.Threshold,
		CurrentValue:   roundTo(value, 2),
		EntityType:     entityType,
		EntityID:       entityID,
		AffectedIDs:    append([]string{}, affected...),
		Message:        message,
		RangeFrom:      in.Range.From,
		RangeTo:        in.Range.To,
	})
}

// AlertID derives the stable id of an alert from what it is about.
func AlertID(alertType models.AlertType, entityType models.AlertEntityType, entityID, madrasahID string, window models.TimeRange) string {
	name := strings.Join([]string{string(alertType), string(entityType), entityID, madrasahID, window.Key()}, "|")
	return uuid.NewSHA1(alertNamespace, []byte(name)).String()
}

func severityRank(s models.AlertSeverity) int {
	switch s {
	case models.SeverityCritical:
		return 0
	case models.SeverityHigh:
		return 1
	case models.SeverityMedium:
		return 2
	default:
		return 3
	}
}
