package service

import (
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// TeacherMetricsCalculator aggregates the students and classes assigned to each teacher.
type TeacherMetricsCalculator struct {
	policy Policy
}

// NewTeacherMetricsCalculator constructs the calculator.
func NewTeacherMetricsCalculator(policy Policy) *TeacherMetricsCalculator {
	return &TeacherMetricsCalculator{policy: policy}
}

// Calculate returns metrics for active teachers ordered by id.
func (c *TeacherMetricsCalculator) Calculate(dc *models.AnalyticsDataContext, students []models.StudentMetrics, classes []models.ClassMetrics) []models.TeacherMetrics {
	studentByID := make(map[string]models.StudentMetrics, len(students))
	for _, s := range students {
		studentByID[s.StudentID] = s
	}
	classByID := make(map[string]models.ClassMetrics, len(classes))
	for _, cm := range classes {
		classByID[cm.ClassID] = cm
	}
	assignmentDue := make(map[string]models.Assignment, len(dc.Assignments()))
	for _, a := range dc.Assignments() {
		assignmentDue[a.ID] = a
	}

	out := make([]models.TeacherMetrics, 0, len(dc.Teachers()))
	for _, t := range dc.Teachers() {
		if !t.Active {
			continue
		}
		m := models.TeacherMetrics{TeacherID: t.ID, Name: t.Name}

		taught := dc.ClassesTaughtBy(t.ID)
		m.Classes = len(taught)
		seen := make(map[string]struct{})
		var paces []float64
		scheduled, conducted := 0, 0
		for _, class := range taught {
			if cm, ok := classByID[class.ID]; ok {
				scheduled += cm.ScheduledSessions
				conducted += cm.ConductedSessions
			}
			for _, member := range dc.Members(class.ID) {
				sm, ok := studentByID[member.ID]
				if !ok {
					continue
				}
				if _, dup := seen[member.ID]; dup {
					continue
				}
				seen[member.ID] = struct{}{}
				paces = append(paces, sm.Pace)
				if sm.AtRisk {
					m.AtRiskStudents++
				}
			}
		}
		m.Students = len(seen)

		if m.Students > 0 {
			m.AveragePace = mean(paces)
			m.SessionReliability = sessionRatio(conducted, scheduled)
			if m.SessionReliability != nil {
				m.CancellationRate = floatPtr(100 - *m.SessionReliability)
			}
		}

		var turnaround []float64
		for _, sub := range dc.Submissions() {
			a, ok := assignmentDue[sub.AssignmentID]
			if !ok || a.TeacherID != t.ID || sub.GradedAt == nil {
				continue
			}
			hours := sub.GradedAt.Sub(a.DueDate).Hours()
			if hours < 0 {
				hours = 0
			}
			turnaround = append(turnaround, hours)
		}
		m.GradingTurnaroundHours = mean(turnaround)

		for _, p := range dc.Progress() {
			if p.ContributorID != nil && *p.ContributorID == t.ID {
				m.ProgressEntriesRecorded++
			}
		}
		for _, r := range dc.JuzRevisions() {
			if r.TeacherID != nil && *r.TeacherID == t.ID {
				m.RevisionsRecorded++
			}
		}
		for _, r := range dc.SabaqParas() {
			if r.TeacherID != nil && *r.TeacherID == t.ID {
				m.RevisionsRecorded++
			}
		}
		for _, msg := range dc.Communications() {
			if msg.SenderID == t.ID {
				m.CommunicationsSent++
			}
		}
		out = append(out, m)
	}
	return out
}
