package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

const studentColumns = `id, madrasah_id, name, section, status, enrollment_date, class_id, current_juz, completed_juz`

// StudentRepository reads student records owned by the platform.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListStudents returns every student of the madrasah regardless of status.
func (r *StudentRepository) ListStudents(ctx context.Context, madrasahID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE madrasah_id = $1 ORDER BY id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, madrasahID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
