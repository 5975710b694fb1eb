package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent        AttendanceStatus = "present"
	AttendanceStatusAbsent         AttendanceStatus = "absent"
	AttendanceStatusLate           AttendanceStatus = "late"
	AttendanceStatusExcused        AttendanceStatus = "excused"
	AttendanceStatusEarlyDeparture AttendanceStatus = "early_departure"
)

// Attended reports whether the status counts as the student having been in session.
func (s AttendanceStatus) Attended() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// AttendanceEntry is a dated presence record for one student.
type AttendanceEntry struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	ClassID   *string          `db:"class_id" json:"class_id,omitempty"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
