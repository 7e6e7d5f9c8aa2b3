package models

import "time"

// Bounds for highlight payloads, enforced at the API layer as well.
const (
	HighlightTextMaxLen = 1000
	HighlightNoteMaxLen = 500
)

// Highlight is a passage a student marked inside an article, optionally annotated.
type Highlight struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index;not null" json:"articleId"`
	StudentID uint      `gorm:"index;not null" json:"studentId"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	Note      *string   `gorm:"size:500" json:"note"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}
