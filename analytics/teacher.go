package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/readscope/readscope/models"
)

const engagementDays = 7

// TeacherOverview totals everything a teacher's articles have accumulated.
type TeacherOverview struct {
	TotalArticles int   `json:"totalArticles"`
	TotalViews    int64 `json:"totalViews"`
	TotalStudents int   `json:"totalStudents"`
}

// ArticleViews ranks one article by its summed view count.
type ArticleViews struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// CategoryCount is the number of owned articles in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryViews is the summed view count across one category's articles.
type CategoryViews struct {
	Category string `json:"category"`
	Views    int64  `json:"views"`
}

// StudentProgressRow summarizes one student's engagement across a teacher's articles.
type StudentProgressRow struct {
	StudentID         uint      `json:"studentId"`
	StudentName       string    `json:"studentName"`
	StudentEmail      string    `json:"studentEmail"`
	TotalArticlesRead int       `json:"totalArticlesRead"`
	TotalViews        int64     `json:"totalViews"`
	TotalTimeSpent    int64     `json:"totalTimeSpent"` // minutes
	LastActivity      time.Time `json:"lastActivity"`
}

// DailyViews is one calendar day of the trailing engagement series.
type DailyViews struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// TeacherAnalytics is the full dashboard rollup for one teacher.
type TeacherAnalytics struct {
	Overview             TeacherOverview      `json:"overview"`
	ArticlesVsViews      []ArticleViews       `json:"articlesVsViews"`
	CategoryDistribution []CategoryCount      `json:"categoryDistribution"`
	MostViewedCategories []CategoryViews      `json:"mostViewedCategories"`
	Top3Categories       []CategoryViews      `json:"top3Categories"`
	StudentWiseProgress  []StudentProgressRow `json:"studentWiseProgress"`
	DailyEngagement      []DailyViews         `json:"dailyEngagement"`
}

// TeacherAnalytics recomputes the teacher dashboard from raw aggregates.
// Every derived view is deterministic for a given aggregate/article state;
// ties keep fetch order via stable sorts.
func (s *Service) TeacherAnalytics(ctx context.Context, teacherID uint) (*TeacherAnalytics, error) {
	if teacherID == 0 {
		return nil, ErrUnauthorized
	}

	articles, err := s.store.ArticlesByOwner(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	articleIDs := make([]uint, 0, len(articles))
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
	}

	stats, err := s.store.StatsByArticleIDs(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	var totalViews int64
	studentIDs := map[uint]struct{}{}
	viewsByArticle := map[uint]int64{}
	for _, st := range stats {
		totalViews += st.Views
		studentIDs[st.StudentID] = struct{}{}
		viewsByArticle[st.ArticleID] += st.Views
	}

	articlesVsViews := make([]ArticleViews, 0, len(articles))
	for _, a := range articles {
		articlesVsViews = append(articlesVsViews, ArticleViews{Title: a.Title, Views: viewsByArticle[a.ID]})
	}
	sort.SliceStable(articlesVsViews, func(i, j int) bool {
		return articlesVsViews[i].Views > articlesVsViews[j].Views
	})

	// Category breakdowns keep first-seen category order before ranking.
	categoryOrder := []string{}
	countByCategory := map[string]int{}
	viewsByCategory := map[string]int64{}
	for _, a := range articles {
		if _, seen := countByCategory[a.Category]; !seen {
			categoryOrder = append(categoryOrder, a.Category)
		}
		countByCategory[a.Category]++
		viewsByCategory[a.Category] += viewsByArticle[a.ID]
	}

	categoryDistribution := make([]CategoryCount, 0, len(categoryOrder))
	mostViewedCategories := make([]CategoryViews, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		categoryDistribution = append(categoryDistribution, CategoryCount{Category: c, Count: countByCategory[c]})
		mostViewedCategories = append(mostViewedCategories, CategoryViews{Category: c, Views: viewsByCategory[c]})
	}
	sort.SliceStable(mostViewedCategories, func(i, j int) bool {
		return mostViewedCategories[i].Views > mostViewedCategories[j].Views
	})

	topN := len(mostViewedCategories)
	if topN > 3 {
		topN = 3
	}
	top3 := make([]CategoryViews, topN)
	copy(top3, mostViewedCategories[:topN])

	studentWiseProgress := s.studentProgressRows(stats)
	dailyEngagement := s.dailyEngagement(stats)

	return &TeacherAnalytics{
		Overview: TeacherOverview{
			TotalArticles: len(articles),
			TotalViews:    totalViews,
			TotalStudents: len(studentIDs),
		},
		ArticlesVsViews:      articlesVsViews,
		CategoryDistribution: categoryDistribution,
		MostViewedCategories: mostViewedCategories,
		Top3Categories:       top3,
		StudentWiseProgress:  studentWiseProgress,
		DailyEngagement:      dailyEngagement,
	}, nil
}

// studentProgressRows groups aggregates by student and ranks by total views.
// Duration stays in raw seconds until the single minute conversion at the end.
func (s *Service) studentProgressRows(stats []models.ReadingStat) []StudentProgressRow {
	order := []uint{}
	rows := map[uint]*progressAccum{}
	for _, st := range stats {
		acc, ok := rows[st.StudentID]
		if !ok {
			acc = &progressAccum{
				row: StudentProgressRow{
					StudentID:    st.StudentID,
					StudentName:  st.Student.Name,
					StudentEmail: st.Student.Email,
					LastActivity: time.Unix(0, 0).UTC(),
				},
			}
			rows[st.StudentID] = acc
			order = append(order, st.StudentID)
		}
		acc.row.TotalArticlesRead++
		acc.row.TotalViews += st.Views
		acc.seconds += st.Duration
		if st.LastViewed.After(acc.row.LastActivity) {
			acc.row.LastActivity = st.LastViewed
		}
	}

	out := make([]StudentProgressRow, 0, len(order))
	for _, id := range order {
		acc := rows[id]
		acc.row.TotalTimeSpent = minutes(acc.seconds)
		out = append(out, acc.row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalViews > out[j].TotalViews
	})
	return out
}

type progressAccum struct {
	row     StudentProgressRow
	seconds int64
}

// dailyEngagement produces exactly 7 calendar days ending today, oldest
// first, attributing each aggregate's views to its last-viewed date.
func (s *Service) dailyEngagement(stats []models.ReadingStat) []DailyViews {
	viewsByDay := map[string]int64{}
	for _, st := range stats {
		if st.LastViewed.IsZero() {
			continue
		}
		viewsByDay[dayKey(st.LastViewed)] += st.Views
	}

	now := s.now()
	series := make([]DailyViews, 0, engagementDays)
	for i := engagementDays - 1; i >= 0; i-- {
		day := dayKey(now.AddDate(0, 0, -i))
		series = append(series, DailyViews{Date: day, Views: viewsByDay[day]})
	}
	return series
}
