package models

import "time"

// ReadingStat accumulates reading activity for one (article, student) pair.
// The composite unique index backs the atomic increment-or-insert used by the
// session recorder, so at most one row ever exists per pair.
type ReadingStat struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ArticleID  uint             `gorm:"index:idx_stat_article_student,unique;not null" json:"articleId"`
	StudentID  uint             `gorm:"index;index:idx_stat_article_student,unique;not null" json:"studentId"`
	Views      int64            `gorm:"not null;default:0" json:"views"`
	Duration   int64            `gorm:"not null;default:0" json:"duration"` // cumulative seconds
	LastViewed time.Time        `json:"lastViewed"`
	Sessions   []ReadingSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sessionData"`
	Article    Article          `json:"-"`
	Student    User             `json:"-"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// ReadingSession is a single timed reading interval reported by the client.
type ReadingSession struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ReadingStatID uint      `gorm:"index;not null" json:"-"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Duration      int64     `gorm:"not null;default:0" json:"duration"` // seconds
}
