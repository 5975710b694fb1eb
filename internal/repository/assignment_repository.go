package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// AssignmentRepository reads assignments and their submissions.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListAssignments returns assignments due inside the window.
func (r *AssignmentRepository) ListAssignments(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Assignment, error) {
	const query = `SELECT a.id, a.class_id, a.teacher_id, a.title, a.due_date, a.created_at
        FROM assignments a JOIN classes c ON c.id = a.class_id
        WHERE c.madrasah_id = $1 AND a.due_date BETWEEN $2 AND $3 ORDER BY a.id`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListSubmissions returns submissions handed in inside the window.
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Submission, error) {
	const query = `SELECT sub.id, sub.assignment_id, sub.student_id, sub.status, sub.submitted_at, sub.graded_at
        FROM assignment_submissions sub JOIN students s ON s.id = sub.student_id
        WHERE s.madrasah_id = $1 AND sub.submitted_at BETWEEN $2 AND $3 ORDER BY sub.id`
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}
