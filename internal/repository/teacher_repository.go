package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// TeacherRepository reads teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListTeachers returns the madrasah's teachers ordered by id.
func (r *TeacherRepository) ListTeachers(ctx context.Context, madrasahID string) ([]models.Teacher, error) {
	const query = `SELECT id, madrasah_id, name, subject, active FROM teachers WHERE madrasah_id = $1 ORDER BY id`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, madrasahID); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
