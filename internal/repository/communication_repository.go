package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// CommunicationRepository reads staff to guardian messages.
type CommunicationRepository struct {
	db *sqlx.DB
}

// NewCommunicationRepository constructs a CommunicationRepository.
func NewCommunicationRepository(db *sqlx.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// ListCommunications returns messages created inside the window.
func (r *CommunicationRepository) ListCommunications(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Communication, error) {
	const query = `SELECT id, madrasah_id, sender_id, recipient_id, student_id, category, created_at, read_at
        FROM communications WHERE madrasah_id = $1 AND created_at BETWEEN $2 AND $3 ORDER BY id`
	var messages []models.Communication
	if err := r.db.SelectContext(ctx, &messages, query, madrasahID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	return messages, nil
}
