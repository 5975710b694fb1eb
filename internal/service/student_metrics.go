package service

import (
	"math"
	"time"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

const day = 24 * time.Hour

// StudentMetricsCalculator derives per-student aggregates. It never reads the clock:
// the window end stands in for "now".
type StudentMetricsCalculator struct {
	policy Policy
}

// NewStudentMetricsCalculator constructs the calculator.
func NewStudentMetricsCalculator(policy Policy) *StudentMetricsCalculator {
	return &StudentMetricsCalculator{policy: policy}
}

// Calculate returns metrics for every active student ordered by id.
func (c *StudentMetricsCalculator) Calculate(dc *models.AnalyticsDataContext) []models.StudentMetrics {
	out := make([]models.StudentMetrics, 0, len(dc.Students()))
	for _, s := range dc.Students() {
		if !s.Active() {
			continue
		}
		out = append(out, c.forStudent(dc, s))
	}
	return out
}

// For computes metrics for a single active student.
func (c *StudentMetricsCalculator) For(dc *models.AnalyticsDataContext, studentID string) (models.StudentMetrics, bool) {
	for _, s := range dc.Students() {
		if s.ID == studentID && s.Active() {
			return c.forStudent(dc, s), true
		}
	}
	return models.StudentMetrics{}, false
}

func (c *StudentMetricsCalculator) forStudent(dc *models.AnalyticsDataContext, s models.Student) models.StudentMetrics {
	window := dc.Window()
	m := models.StudentMetrics{
		StudentID: s.ID,
		Name:      s.Name,
		Section:   s.Section,
		ClassID:   s.ClassID,
	}

	attendance := dc.AttendanceFor(s.ID)
	m.RecordedDays = len(attendance)
	attended := 0
	for _, a := range attendance {
		if a.Status.Attended() {
			attended++
		}
		if a.Status == models.AttendanceStatusAbsent {
			m.Absences++
		}
	}
	m.AttendanceRate = percent(attended, len(attendance))
	for i := len(attendance) - 1; i >= 0 && attendance[i].Status == models.AttendanceStatusAbsent; i-- {
		m.ConsecutiveAbsences++
	}

	progress := dc.ProgressFor(s.ID)
	var qualitySum, rated int
	for _, p := range progress {
		if p.LessonType == models.LessonTypeSabaq {
			m.PagesMemorized += c.pages(p)
		} else {
			m.Revisions++
		}
		if score := p.QualityRating.Score(); score > 0 {
			qualitySum += score
			rated++
		}
	}
	m.Revisions += dc.RevisionCount(s.ID)
	if rated > 0 {
		m.AverageQuality = floatPtr(float64(qualitySum) / float64(rated))
	}

	start := window.From
	if s.EnrollmentDate.After(start) {
		start = s.EnrollmentDate
	}
	weeks := window.To.Sub(start).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}
	m.Pace = m.PagesMemorized / weeks

	if len(progress) > 0 {
		last := progress[len(progress)-1].Date
		m.DaysSinceLastProgress = intPtr(int(window.To.Sub(last) / day))
	}
	m.Stagnant = m.DaysSinceLastProgress == nil || *m.DaysSinceLastProgress >= c.policy.StagnationDays

	m.RiskScore = c.riskScore(m)
	m.AtRisk = m.RiskScore >= c.policy.AtRiskThreshold
	m.DropOffProbability = c.dropOff(m)
	m.OnTrack = !m.Stagnant && m.Pace >= c.policy.TargetPacePerWeek &&
		(m.AttendanceRate == nil || *m.AttendanceRate >= c.policy.MinAttendanceRate)
	return m
}

// pages converts an entry to pages, preferring explicit page counts over verse counts
// over the ayat span.
func (c *StudentMetricsCalculator) pages(p models.ProgressEntry) float64 {
	switch {
	case p.PagesCount != nil && *p.PagesCount > 0:
		return *p.PagesCount
	case p.VersesCount != nil && *p.VersesCount > 0:
		return float64(*p.VersesCount) / c.policy.VersesPerPage
	case p.StartAyat != nil && p.EndAyat != nil && *p.EndAyat >= *p.StartAyat:
		return float64(*p.EndAyat-*p.StartAyat+1) / c.policy.VersesPerPage
	default:
		return 0
	}
}

func (c *StudentMetricsCalculator) paceRisk(pace float64) float64 {
	if c.policy.TargetPacePerWeek <= 0 {
		return 0
	}
	return clamp01(1 - pace/c.policy.TargetPacePerWeek)
}

func (c *StudentMetricsCalculator) riskScore(m models.StudentMetrics) float64 {
	var weighted, weights float64
	if m.AttendanceRate != nil {
		weighted += c.policy.AttendanceRiskWeight * clamp01(1-*m.AttendanceRate/100)
		weights += c.policy.AttendanceRiskWeight
	}
	weighted += c.policy.PaceRiskWeight * c.paceRisk(m.Pace)
	weights += c.policy.PaceRiskWeight
	if m.Stagnant {
		weighted += c.policy.StagnationRiskWeight
	}
	weights += c.policy.StagnationRiskWeight
	if weights == 0 {
		return 0
	}
	return roundTo(weighted/weights*100, 2)
}

func (c *StudentMetricsCalculator) dropOff(m models.StudentMetrics) float64 {
	inactivity := 1.0
	if m.DaysSinceLastProgress != nil && c.policy.DropOffInactivityDays > 0 {
		inactivity = clamp01(float64(*m.DaysSinceLastProgress) / float64(c.policy.DropOffInactivityDays))
	}
	var weighted, weights float64
	if m.AttendanceRate != nil {
		weighted += c.policy.AttendanceRiskWeight * clamp01(1-*m.AttendanceRate/100)
		weights += c.policy.AttendanceRiskWeight
	}
	weighted += c.policy.PaceRiskWeight*c.paceRisk(m.Pace) + c.policy.StagnationRiskWeight*inactivity
	weights += c.policy.PaceRiskWeight + c.policy.StagnationRiskWeight
	if weights == 0 {
		return 0
	}
	return roundTo(weighted/weights, 4)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
