package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// ClassRepository reads class definitions together with their schedules.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListClasses returns the madrasah's classes ordered by id.
func (r *ClassRepository) ListClasses(ctx context.Context, madrasahID string) ([]models.Class, error) {
	const query = `SELECT id, madrasah_id, name, capacity, teacher_ids, days_of_week, created_at
        FROM classes WHERE madrasah_id = $1 ORDER BY id`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, madrasahID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}
