package service

import (
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// ActivitySet holds the ids of students with at least one attendance or progress
// record in a window.
type ActivitySet map[string]struct{}

// ActivityFrom collects the active student ids of a context.
func ActivityFrom(dc *models.AnalyticsDataContext) ActivitySet {
	set := make(ActivitySet)
	for _, a := range dc.Attendance() {
		set[a.StudentID] = struct{}{}
	}
	for _, p := range dc.Progress() {
		set[p.StudentID] = struct{}{}
	}
	return set
}

// ProgramMetricsCalculator rolls everything up into institution-wide KPIs.
type ProgramMetricsCalculator struct {
	policy Policy
}

// NewProgramMetricsCalculator constructs the calculator.
func NewProgramMetricsCalculator(policy Policy) *ProgramMetricsCalculator {
	return &ProgramMetricsCalculator{policy: policy}
}

// Calculate derives program metrics. A nil prior set means the prior period could not
// be loaded and leaves retention null.
func (c *ProgramMetricsCalculator) Calculate(dc *models.AnalyticsDataContext, students []models.StudentMetrics, classes []models.ClassMetrics, prior ActivitySet) models.ProgramMetrics {
	m := models.ProgramMetrics{
		TotalStudents:   len(dc.Students()),
		Classes:         len(dc.Classes()),
		ProgressEntries: len(dc.Progress()),
		Communications:  len(dc.Communications()),
	}
	for _, t := range dc.Teachers() {
		if t.Active {
			m.Teachers++
		}
	}

	var paces []float64
	onTrack := 0
	attended, recorded := 0, 0
	for _, s := range students {
		paces = append(paces, s.Pace)
		if s.OnTrack {
			onTrack++
		}
		if s.AtRisk {
			m.AtRiskStudents++
		}
		if s.Stagnant {
			m.StagnantStudents++
		}
		for _, a := range dc.AttendanceFor(s.StudentID) {
			recorded++
			if a.Status.Attended() {
				attended++
			}
		}
	}
	m.ActiveStudents = len(students)
	m.AveragePace = mean(paces)
	m.AttendanceRate = percent(attended, recorded)
	m.StudentsOnTrack = percent(onTrack, m.ActiveStudents)
	m.StagnantShare = percent(m.StagnantStudents, m.ActiveStudents)

	m.RevisionsCompleted = len(dc.JuzRevisions()) + len(dc.SabaqParas())
	for _, p := range dc.Progress() {
		if p.LessonType != models.LessonTypeSabaq {
			m.RevisionsCompleted++
		}
	}
	for _, msg := range dc.Communications() {
		if msg.ReadAt == nil {
			m.UnreadCommunications++
		}
	}

	enrolled, capacity := 0, 0
	for _, cm := range classes {
		if cm.Capacity != nil && *cm.Capacity > 0 {
			enrolled += cm.Enrolled
			capacity += *cm.Capacity
		}
	}
	if enrolled > 0 {
		m.CapacityUtilization = percent(enrolled, capacity)
	}

	if len(prior) > 0 {
		current := ActivityFrom(dc)
		retained := 0
		for id := range prior {
			if _, ok := current[id]; ok {
				retained++
			}
		}
		m.RetentionRate = percent(retained, len(prior))
	}
	return m
}
