package analytics

import (
	"context"
	"time"

	"github.com/readscope/readscope/models"
)

// Store abstracts the persistence queries the analytics engine depends on.
// Implementations must resolve related rows where noted: student name/email
// for teacher-facing views, article title/category for student-facing ones.
type Store interface {
	// ArticlesByOwner returns every article created by the teacher.
	ArticlesByOwner(ctx context.Context, teacherID uint) ([]models.Article, error)
	// ArticleByID returns the article or ErrNotFound.
	ArticleByID(ctx context.Context, articleID uint) (*models.Article, error)
	// StatsByArticleIDs returns aggregates for the given articles with Student resolved.
	StatsByArticleIDs(ctx context.Context, articleIDs []uint) ([]models.ReadingStat, error)
	// StatsByStudent returns the student's aggregates with Article resolved where it still exists.
	StatsByStudent(ctx context.Context, studentID uint) ([]models.ReadingStat, error)
	// StatsByArticle returns aggregates for one article with Student and Sessions resolved.
	StatsByArticle(ctx context.Context, articleID uint) ([]models.ReadingStat, error)
	// UpsertStat atomically applies one activity report to the (article, student)
	// aggregate, creating it when absent, and appends a session entry. The
	// returned row reflects the post-upsert counters.
	UpsertStat(ctx context.Context, articleID, studentID uint, durationSeconds int64, now, sessionStart, sessionEnd time.Time) (*models.ReadingStat, error)
}
