package analytics

import (
	"context"
	"time"
)

// StudentStat is one student's footprint on a single article.
type StudentStat struct {
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	Views        int64     `json:"views"`
	Duration     int64     `json:"duration"` // minutes
	LastViewed   time.Time `json:"lastViewed"`
	Sessions     int       `json:"sessions"`
}

// ArticleStats is the per-article breakdown shown to the owning teacher.
type ArticleStats struct {
	ArticleTitle   string        `json:"articleTitle"`
	TotalViews     int64         `json:"totalViews"`
	TotalDuration  int64         `json:"totalDuration"` // seconds
	UniqueStudents int           `json:"uniqueStudents"`
	StudentStats   []StudentStat `json:"studentStats"`
}

// ArticleStats derives per-student statistics for one article. Ownership is
// part of the lookup: a teacher asking about an article they do not own gets
// ErrNotFound, the same as for a missing article.
func (s *Service) ArticleStats(ctx context.Context, articleID, teacherID uint) (*ArticleStats, error) {
	if teacherID == 0 {
		return nil, ErrUnauthorized
	}
	if articleID == 0 {
		return nil, ErrInvalidReference
	}

	article, err := s.store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.CreatedByID != teacherID {
		return nil, ErrNotFound
	}

	stats, err := s.store.StatsByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	out := &ArticleStats{
		ArticleTitle:   article.Title,
		UniqueStudents: len(stats),
		StudentStats:   make([]StudentStat, 0, len(stats)),
	}
	for _, st := range stats {
		out.TotalViews += st.Views
		out.TotalDuration += st.Duration
		out.StudentStats = append(out.StudentStats, StudentStat{
			StudentName:  st.Student.Name,
			StudentEmail: st.Student.Email,
			Views:        st.Views,
			Duration:     minutes(st.Duration),
			LastViewed:   st.LastViewed,
			Sessions:     len(st.Sessions),
		})
	}
	return out, nil
}
