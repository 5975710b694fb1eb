package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// AttendanceRepository reads daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListAttendance returns attendance dated inside the window.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.AttendanceEntry, error) {
	const query = `SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.created_at
        FROM attendance a JOIN students s ON s.id = a.student_id
        WHERE s.madrasah_id = $1 AND a.date BETWEEN $2 AND $3 ORDER BY a.date, a.id`
	var entries []models.AttendanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return entries, nil
}
