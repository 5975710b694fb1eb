package models

import "time"

// Assignment is homework set by a teacher for a class.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Title     string    `db:"title" json:"title"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Submission is a student's hand-in for an assignment.
type Submission struct {
	ID           string     `db:"id" json:"id"`
	AssignmentID string     `db:"assignment_id" json:"assignment_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	Status       string     `db:"status" json:"status"`
	SubmittedAt  time.Time  `db:"submitted_at" json:"submitted_at"`
	GradedAt     *time.Time `db:"graded_at" json:"graded_at,omitempty"`
}
