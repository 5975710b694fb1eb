package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Class represents a halaqa or class section with its weekly schedule.
type Class struct {
	ID           string         `db:"id" json:"id"`
	MadrasahID   string         `db:"madrasah_id" json:"madrasah_id"`
	Name         string         `db:"name" json:"name"`
	Capacity     *int           `db:"capacity" json:"capacity,omitempty"`
	TeacherIDs   pq.StringArray `db:"teacher_ids" json:"teacher_ids"`
	ScheduleDays pq.StringArray `db:"days_of_week" json:"days_of_week"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// MeetsOn reports whether the class is scheduled on the given weekday.
func (c Class) MeetsOn(day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range c.ScheduleDays {
		if strings.ToLower(strings.TrimSpace(d)) == name {
			return true
		}
	}
	return false
}

// TaughtBy reports whether teacherID is assigned to the class.
func (c Class) TaughtBy(teacherID string) bool {
	for _, id := range c.TeacherIDs {
		if id == teacherID {
			return true
		}
	}
	return false
}
