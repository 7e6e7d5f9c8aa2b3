package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/readscope/readscope/models"
)

// CategoryProgress counts one category's share of a student's reading.
type CategoryProgress struct {
	ArticlesRead int   `json:"articlesRead"`
	TimeSpent    int64 `json:"timeSpent"` // minutes
	Views        int64 `json:"views"`
}

// ProgressActivity is one row of the recent-activity list.
type ProgressActivity struct {
	ArticleTitle string    `json:"articleTitle"`
	Category     string    `json:"category"`
	Views        int64     `json:"views"`
	Duration     int64     `json:"duration"` // minutes
	LastViewed   time.Time `json:"lastViewed"`
}

// StudentProgress is the per-category progress view exposed by the tracking API.
type StudentProgress struct {
	TotalArticlesRead int                         `json:"totalArticlesRead"`
	TotalTimeSpent    int64                       `json:"totalTimeSpent"` // minutes
	TotalViews        int64                       `json:"totalViews"`
	CategoryStats     map[string]CategoryProgress `json:"categoryStats"`
	RecentActivity    []ProgressActivity          `json:"recentActivity"`
}

// StudentProgress derives the alternate student view: the same aggregates as
// StudentAnalytics, but broken down into per-category article/time/view
// counters. Aggregates with a dangling article reference count toward the
// overview totals only.
func (s *Service) StudentProgress(ctx context.Context, studentID uint) (*StudentProgress, error) {
	if studentID == 0 {
		return nil, ErrUnauthorized
	}

	stats, err := s.store.StatsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var totalSeconds, totalViews int64
	categorySeconds := map[string]int64{}
	categoryStats := map[string]CategoryProgress{}
	for _, st := range stats {
		totalSeconds += st.Duration
		totalViews += st.Views
		if !articleResolved(st) || st.Article.Category == "" {
			continue
		}
		c := st.Article.Category
		acc := categoryStats[c]
		acc.ArticlesRead++
		acc.Views += st.Views
		categorySeconds[c] += st.Duration
		categoryStats[c] = acc
	}
	for c, acc := range categoryStats {
		acc.TimeSpent = minutes(categorySeconds[c])
		categoryStats[c] = acc
	}

	recent := make([]models.ReadingStat, 0, len(stats))
	for _, st := range stats {
		if articleResolved(st) {
			recent = append(recent, st)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return lastViewedUnix(recent[i]) > lastViewedUnix(recent[j])
	})
	if len(recent) > recentArticleLimit {
		recent = recent[:recentArticleLimit]
	}

	activity := make([]ProgressActivity, 0, len(recent))
	for _, st := range recent {
		activity = append(activity, ProgressActivity{
			ArticleTitle: st.Article.Title,
			Category:     st.Article.Category,
			Views:        st.Views,
			Duration:     minutes(st.Duration),
			LastViewed:   st.LastViewed,
		})
	}

	return &StudentProgress{
		TotalArticlesRead: len(stats),
		TotalTimeSpent:    minutes(totalSeconds),
		TotalViews:        totalViews,
		CategoryStats:     categoryStats,
		RecentActivity:    activity,
	}, nil
}
