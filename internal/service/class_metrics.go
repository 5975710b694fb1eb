package service

import (
	"time"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// ClassMetricsCalculator aggregates member student metrics and class-level facts.
type ClassMetricsCalculator struct {
	policy Policy
}

// NewClassMetricsCalculator constructs the calculator.
func NewClassMetricsCalculator(policy Policy) *ClassMetricsCalculator {
	return &ClassMetricsCalculator{policy: policy}
}

// Calculate returns one entry per class ordered by class id. Classes without active
// members report every rate as null.
func (c *ClassMetricsCalculator) Calculate(dc *models.AnalyticsDataContext, students []models.StudentMetrics) []models.ClassMetrics {
	byID := make(map[string]models.StudentMetrics, len(students))
	for _, s := range students {
		byID[s.StudentID] = s
	}

	out := make([]models.ClassMetrics, 0, len(dc.Classes()))
	for _, class := range dc.Classes() {
		m := models.ClassMetrics{ClassID: class.ID, Name: class.Name, Capacity: class.Capacity}

		memberIDs := make(map[string]struct{})
		var paces []float64
		attended, recorded := 0, 0
		for _, member := range dc.Members(class.ID) {
			memberIDs[member.ID] = struct{}{}
			if !member.Active() {
				m.InactiveMembers++
				continue
			}
			m.Enrolled++
			sm, ok := byID[member.ID]
			if ok {
				paces = append(paces, sm.Pace)
				if sm.Pace >= c.policy.TargetPacePerWeek {
					m.StudentsAboveTarget++
				} else {
					m.StudentsBelowTarget++
				}
				if sm.AtRisk {
					m.AtRiskCount++
				}
			}
			for _, a := range dc.AttendanceFor(member.ID) {
				recorded++
				if a.Status.Attended() {
					attended++
				}
			}
		}

		m.ScheduledSessions = scheduledSessions(class, dc.Window())
		m.ConductedSessions = conductedSessions(dc, class.ID, memberIDs)

		if m.Enrolled > 0 {
			if class.Capacity != nil && *class.Capacity > 0 {
				m.CapacityUtilization = percent(m.Enrolled, *class.Capacity)
			}
			m.AveragePace = mean(paces)
			m.PaceVariance = variance(paces)
			m.AtRiskShare = percent(m.AtRiskCount, m.Enrolled)
			m.AttendanceRate = percent(attended, recorded)
			m.SessionRatio = sessionRatio(m.ConductedSessions, m.ScheduledSessions)
			m.DropOffRate = percent(m.InactiveMembers, m.Enrolled+m.InactiveMembers)
		}
		out = append(out, m)
	}
	return out
}

// scheduledSessions counts calendar days in the window falling on the class weekdays.
func scheduledSessions(class models.Class, window models.TimeRange) int {
	if len(class.ScheduleDays) == 0 {
		return 0
	}
	count := 0
	last := truncateDay(window.To)
	for d := truncateDay(window.From); !d.After(last); d = d.AddDate(0, 0, 1) {
		if class.MeetsOn(d.Weekday()) {
			count++
		}
	}
	return count
}

// conductedSessions counts distinct days with attendance recorded for the class.
// Records without a class id are attributed through the student's membership.
func conductedSessions(dc *models.AnalyticsDataContext, classID string, members map[string]struct{}) int {
	days := make(map[time.Time]struct{})
	for _, a := range dc.Attendance() {
		if a.ClassID != nil {
			if *a.ClassID != classID {
				continue
			}
		} else if _, ok := members[a.StudentID]; !ok {
			continue
		}
		days[truncateDay(a.Date)] = struct{}{}
	}
	return len(days)
}

// sessionRatio is conducted over scheduled as a percentage capped at 100.
func sessionRatio(conducted, scheduled int) *float64 {
	ratio := percent(conducted, scheduled)
	if ratio != nil && *ratio > 100 {
		*ratio = 100
	}
	return ratio
}

func variance(values []float64) *float64 {
	avg := mean(values)
	if avg == nil {
		return nil
	}
	var sum float64
	for _, v := range values {
		d := v - *avg
		sum += d * d
	}
	return floatPtr(sum / float64(len(values)))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
