package models

import "time"

// Communication is a message exchanged between staff and guardians.
type Communication struct {
	ID          string     `db:"id" json:"id"`
	MadrasahID  string     `db:"madrasah_id" json:"madrasah_id"`
	SenderID    string     `db:"sender_id" json:"sender_id"`
	RecipientID string     `db:"recipient_id" json:"recipient_id"`
	StudentID   *string    `db:"student_id" json:"student_id,omitempty"`
	Category    string     `db:"category" json:"category"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
}
