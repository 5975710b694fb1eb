package models

// Teacher represents a teaching staff member of a madrasah.
type Teacher struct {
	ID         string `db:"id" json:"id"`
	MadrasahID string `db:"madrasah_id" json:"madrasah_id"`
	Name       string `db:"name" json:"name"`
	Subject    string `db:"subject" json:"subject"`
	Active     bool   `db:"active" json:"active"`
}
