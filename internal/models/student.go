package models

import (
	"time"

	"github.com/lib/pq"
)

// StudentStatus is the enrollment status of a student.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Student is a learner enrolled in a madrasah. Owned by the platform; read-only here.
type Student struct {
	ID             string        `db:"id" json:"id"`
	MadrasahID     string        `db:"madrasah_id" json:"madrasah_id"`
	Name           string        `db:"name" json:"name"`
	Section        string        `db:"section" json:"section"`
	Status         StudentStatus `db:"status" json:"status"`
	EnrollmentDate time.Time     `db:"enrollment_date" json:"enrollment_date"`
	ClassID        *string       `db:"class_id" json:"class_id,omitempty"`
	CurrentJuz     *int          `db:"current_juz" json:"current_juz,omitempty"`
	CompletedJuz   pq.Int64Array `db:"completed_juz" json:"completed_juz"`
}

// Active reports whether the student currently counts towards analytics.
func (s Student) Active() bool {
	return s.Status == StudentStatusActive
}
