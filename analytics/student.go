package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/readscope/readscope/models"
)

const recentArticleLimit = 10

// StudentOverview totals one student's reading across all articles.
type StudentOverview struct {
	TotalArticlesRead int   `json:"totalArticlesRead"`
	TotalTimeSpent    int64 `json:"totalTimeSpent"` // minutes
}

// CategoryTime is the raw seconds a student spent in one category. Minute
// conversion is left to the presentation layer for chart precision.
type CategoryTime struct {
	Category string `json:"category"`
	Time     int64  `json:"time"`
}

// RecentArticleRef carries the resolved article fields shown in the recent list.
type RecentArticleRef struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// RecentArticle is one entry of the most-recently-viewed list.
type RecentArticle struct {
	Article    RecentArticleRef `json:"articleId"`
	Views      int64            `json:"views"`
	TimeSpent  int64            `json:"timeSpent"` // minutes
	LastViewed time.Time        `json:"lastViewed"`
}

// StudentAnalytics is the dashboard rollup for one student.
type StudentAnalytics struct {
	Overview        StudentOverview `json:"overview"`
	TimePerCategory []CategoryTime  `json:"timePerCategory"`
	RecentArticles  []RecentArticle `json:"recentArticles"`
}

// StudentAnalytics recomputes the student dashboard from the student's
// aggregates. Aggregates whose article no longer resolves still count toward
// totals under the "Other" category but are excluded from the recent list;
// dangling references are a data-quality edge case, not an error.
func (s *Service) StudentAnalytics(ctx context.Context, studentID uint) (*StudentAnalytics, error) {
	if studentID == 0 {
		return nil, ErrUnauthorized
	}

	stats, err := s.store.StatsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var totalSeconds int64
	categoryOrder := []string{}
	secondsByCategory := map[string]int64{}
	for _, st := range stats {
		totalSeconds += st.Duration
		category := st.Article.Category
		if !articleResolved(st) || category == "" {
			category = models.CategoryOther
		}
		if _, seen := secondsByCategory[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		secondsByCategory[category] += st.Duration
	}

	timePerCategory := make([]CategoryTime, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		timePerCategory = append(timePerCategory, CategoryTime{Category: c, Time: secondsByCategory[c]})
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

	recentArticles := make([]RecentArticle, 0, len(recent))
	for _, st := range recent {
		recentArticles = append(recentArticles, RecentArticle{
			Article: RecentArticleRef{
				Title:    st.Article.Title,
				Category: st.Article.Category,
			},
			Views:      st.Views,
			TimeSpent:  minutes(st.Duration),
			LastViewed: st.LastViewed,
		})
	}

	return &StudentAnalytics{
		Overview: StudentOverview{
			TotalArticlesRead: len(stats),
			TotalTimeSpent:    minutes(totalSeconds),
		},
		TimePerCategory: timePerCategory,
		RecentArticles:  recentArticles,
	}, nil
}

// articleResolved reports whether the aggregate's article reference still
// points at an existing article.
func articleResolved(st models.ReadingStat) bool {
	return st.Article.ID != 0
}

// lastViewedUnix orders aggregates by recency; an unset last-viewed sorts earliest.
func lastViewedUnix(st models.ReadingStat) int64 {
	if st.LastViewed.IsZero() {
		return 0
	}
	return st.LastViewed.UnixNano()
}
