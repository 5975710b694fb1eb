package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// ProgressRepository reads memorization and revision records. Rows are scoped to a
// madrasah through the owning student.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListProgress returns progress entries dated inside the window.
func (r *ProgressRepository) ListProgress(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.ProgressEntry, error) {
	const query = `SELECT p.id, p.student_id, p.date, p.lesson_type, p.current_surah, p.current_juz, p.start_ayat, p.end_ayat,
        p.verses_memorized, p.pages_memorized, p.memorization_quality, p.contributor_id, p.created_at
        FROM progress p JOIN students s ON s.id = p.student_id
        WHERE s.madrasah_id = $1 AND p.date BETWEEN $2 AND $3 ORDER BY p.date, p.id`
	var entries []models.ProgressEntry
	if err := r.db.SelectContext(ctx, &entries, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return entries, nil
}

// ListJuzRevisions returns full-juz revisions dated inside the window.
func (r *ProgressRepository) ListJuzRevisions(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.JuzRevision, error) {
	const query = `SELECT j.id, j.student_id, j.juz_revised, j.revision_date, j.memorization_quality, j.teacher_id
        FROM juz_revisions j JOIN students s ON s.id = j.student_id
        WHERE s.madrasah_id = $1 AND j.revision_date BETWEEN $2 AND $3 ORDER BY j.id`
	var revisions []models.JuzRevision
	if err := r.db.SelectContext(ctx, &revisions, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list juz revisions: %w", err)
	}
	return revisions, nil
}

// ListSabaqParas returns sabaq para records dated inside the window.
func (r *ProgressRepository) ListSabaqParas(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.SabaqPara, error) {
	const query = `SELECT sp.id, sp.student_id, sp.juz_number, sp.revision_date, sp.quality_rating, sp.teacher_id
        FROM sabaq_para sp JOIN students s ON s.id = sp.student_id
        WHERE s.madrasah_id = $1 AND sp.revision_date BETWEEN $2 AND $3 ORDER BY sp.id`
	var paras []models.SabaqPara
	if err := r.db.SelectContext(ctx, &paras, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list sabaq para: %w", err)
	}
	return paras, nil
}
