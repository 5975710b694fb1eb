package models

import "time"

// Rate-like fields are pointers: nil means not-applicable and serializes as null.

// StudentMetrics is derived per active student for one window.
type StudentMetrics struct {
	StudentID             string   `json:"student_id"`
	Name                  string   `json:"name"`
	Section               string   `json:"section"`
	ClassID               *string  `json:"class_id,omitempty"`
	AttendanceRate        *float64 `json:"attendance_rate"`
	RecordedDays          int      `json:"recorded_days"`
	Absences              int      `json:"absences"`
	ConsecutiveAbsences   int      `json:"consecutive_absences"`
	PagesMemorized        float64  `json:"pages_memorized"`
	Pace                  float64  `json:"pace"`
	DaysSinceLastProgress *int     `json:"days_since_last_progress"`
	Stagnant              bool     `json:"stagnant"`
	Revisions             int      `json:"revisions"`
	AverageQuality        *float64 `json:"average_quality"`
	RiskScore             float64  `json:"risk_score"`
	AtRisk                bool     `json:"at_risk"`
	DropOffProbability    float64  `json:"drop_off_probability"`
	OnTrack               bool     `json:"on_track"`
}

// ClassMetrics aggregates member students of one class.
type ClassMetrics struct {
	ClassID             string   `json:"class_id"`
	Name                string   `json:"name"`
	Enrolled            int      `json:"enrolled"`
	InactiveMembers     int      `json:"inactive_members"`
	Capacity            *int     `json:"capacity"`
	CapacityUtilization *float64 `json:"capacity_utilization"`
	AveragePace         *float64 `json:"average_pace"`
	PaceVariance        *float64 `json:"pace_variance"`
	StudentsAboveTarget int      `json:"students_above_target"`
	StudentsBelowTarget int      `json:"students_below_target"`
	AtRiskCount         int      `json:"at_risk_count"`
	AtRiskShare         *float64 `json:"at_risk_share"`
	AttendanceRate      *float64 `json:"attendance_rate"`
	ScheduledSessions   int      `json:"scheduled_sessions"`
	ConductedSessions   int      `json:"conducted_sessions"`
	SessionRatio        *float64 `json:"session_ratio"`
	DropOffRate         *float64 `json:"drop_off_rate"`
}

// TeacherMetrics aggregates the students and classes assigned to one teacher.
type TeacherMetrics struct {
	TeacherID               string   `json:"teacher_id"`
	Name                    string   `json:"name"`
	Classes                 int      `json:"classes"`
	Students                int      `json:"students"`
	AtRiskStudents          int      `json:"at_risk_students"`
	AveragePace             *float64 `json:"average_pace"`
	SessionReliability      *float64 `json:"session_reliability"`
	CancellationRate        *float64 `json:"cancellation_rate"`
	GradingTurnaroundHours  *float64 `json:"grading_turnaround_hours"`
	ProgressEntriesRecorded int      `json:"progress_entries_recorded"`
	RevisionsRecorded       int      `json:"revisions_recorded"`
	CommunicationsSent      int      `json:"communications_sent"`
}

// ProgramMetrics are institution-wide KPIs.
type ProgramMetrics struct {
	TotalStudents        int      `json:"total_students"`
	ActiveStudents       int      `json:"active_students"`
	Teachers             int      `json:"teachers"`
	Classes              int      `json:"classes"`
	AveragePace          *float64 `json:"average_pace"`
	AttendanceRate       *float64 `json:"attendance_rate"`
	StudentsOnTrack      *float64 `json:"students_on_track"`
	AtRiskStudents       int      `json:"at_risk_students"`
	StagnantStudents     int      `json:"stagnant_students"`
	StagnantShare        *float64 `json:"stagnant_share"`
	ProgressEntries      int      `json:"progress_entries"`
	RevisionsCompleted   int      `json:"revisions_completed"`
	Communications       int      `json:"communications"`
	UnreadCommunications int      `json:"unread_communications"`
	CapacityUtilization  *float64 `json:"capacity_utilization"`
	RetentionRate        *float64 `json:"retention_rate"`
}

// AnalyticsReport bundles every derived view for one madrasah and window.
type AnalyticsReport struct {
	MadrasahID string           `json:"madrasah_id"`
	Range      TimeRange        `json:"range"`
	Degraded   []string         `json:"degraded,omitempty"`
	Students   []StudentMetrics `json:"students"`
	Classes    []ClassMetrics   `json:"classes"`
	Teachers   []TeacherMetrics `json:"teachers"`
	Program    ProgramMetrics   `json:"program"`
}

// AnalyticsSystemMetrics represents system level analytics captured from instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	ContextLoads             uint64    `json:"context_loads"`
	AverageContextLoadMs     float64   `json:"average_context_load_ms"`
	FetchFailures            uint64    `json:"fetch_failures"`
	AlertsEmitted            uint64    `json:"alerts_emitted"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
