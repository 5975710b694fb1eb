package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// MadrasahRepository lists tenants for background jobs.
type MadrasahRepository struct {
	db *sqlx.DB
}

// NewMadrasahRepository constructs a MadrasahRepository.
func NewMadrasahRepository(db *sqlx.DB) *MadrasahRepository {
	return &MadrasahRepository{db: db}
}

// ListIDs returns every madrasah id ordered lexically.
func (r *MadrasahRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM madrasahs ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list madrasahs: %w", err)
	}
	return ids, nil
}

// Ping verifies database connectivity for readiness probes.
func (r *MadrasahRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
