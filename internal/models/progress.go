package models

import "time"

// LessonType distinguishes new memorization from revision work.
type LessonType string

const (
	LessonTypeSabaq     LessonType = "sabaq"
	LessonTypeSabaqPara LessonType = "sabaq_para"
	LessonTypeDhor      LessonType = "dhor"
)

// QualityRating is the teacher's assessment of a recitation.
type QualityRating string

const (
	QualityExcellent QualityRating = "excellent"
	QualityGood      QualityRating = "good"
	QualityAverage   QualityRating = "average"
	QualityNeedsWork QualityRating = "needsWork"
	QualityHorrible  QualityRating = "horrible"
)

// Score maps the rating onto a 1-5 scale; unknown ratings score 0.
func (q QualityRating) Score() int {
	switch q {
	case QualityExcellent:
		return 5
	case QualityGood:
		return 4
	case QualityAverage:
		return 3
	case QualityNeedsWork:
		return 2
	case QualityHorrible:
		return 1
	default:
		return 0
	}
}

// ProgressEntry is a dated record of memorization work for one student.
type ProgressEntry struct {
	ID            string        `db:"id" json:"id"`
	StudentID     string        `db:"student_id" json:"student_id"`
	Date          time.Time     `db:"date" json:"date"`
	LessonType    LessonType    `db:"lesson_type" json:"lesson_type"`
	SurahName     string        `db:"current_surah" json:"current_surah"`
	Juz           *int          `db:"current_juz" json:"current_juz,omitempty"`
	StartAyat     *int          `db:"start_ayat" json:"start_ayat,omitempty"`
	EndAyat       *int          `db:"end_ayat" json:"end_ayat,omitempty"`
	VersesCount   *int          `db:"verses_memorized" json:"verses_memorized,omitempty"`
	PagesCount    *float64      `db:"pages_memorized" json:"pages_memorized,omitempty"`
	QualityRating QualityRating `db:"memorization_quality" json:"memorization_quality"`
	ContributorID *string       `db:"contributor_id" json:"contributor_id,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// JuzRevision records a full-juz revision by a student.
type JuzRevision struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	JuzRevised   int            `db:"juz_revised" json:"juz_revised"`
	RevisionDate time.Time      `db:"revision_date" json:"revision_date"`
	Quality      *QualityRating `db:"memorization_quality" json:"memorization_quality,omitempty"`
	TeacherID    *string        `db:"teacher_id" json:"teacher_id,omitempty"`
}

// SabaqPara records revision of the most recently memorized para.
type SabaqPara struct {
	ID            string         `db:"id" json:"id"`
	StudentID     string         `db:"student_id" json:"student_id"`
	JuzNumber     int            `db:"juz_number" json:"juz_number"`
	RevisionDate  time.Time      `db:"revision_date" json:"revision_date"`
	QualityRating *QualityRating `db:"quality_rating" json:"quality_rating,omitempty"`
	TeacherID     *string        `db:"teacher_id" json:"teacher_id,omitempty"`
}
