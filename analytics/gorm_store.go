package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readscope/readscope/models"
)

// gormStore implements Store over the MySQL schema.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (g *gormStore) ArticlesByOwner(ctx context.Context, teacherID uint) ([]models.Article, error) {
	var articles []models.Article
	if err := g.db.WithContext(ctx).
		Where("created_by_id = ?", teacherID).
		Order("id ASC").
		Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("load articles for teacher %d: %w", teacherID, err)
	}
	return articles, nil
}

func (g *gormStore) ArticleByID(ctx context.Context, articleID uint) (*models.Article, error) {
	var article models.Article
	if err := g.db.WithContext(ctx).First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}
	return &article, nil
}

func (g *gormStore) StatsByArticleIDs(ctx context.Context, articleIDs []uint) ([]models.ReadingStat, error) {
	if len(articleIDs) == 0 {
		return []models.ReadingStat{}, nil
	}
	var stats []models.ReadingStat
	if err := g.db.WithContext(ctx).
		Preload("Student").
		Where("article_id IN ?", articleIDs).
		Order("id ASC").
		Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load stats for %d articles: %w", len(articleIDs), err)
	}
	return stats, nil
}

func (g *gormStore) StatsByStudent(ctx context.Context, studentID uint) ([]models.ReadingStat, error) {
	var stats []models.ReadingStat
	if err := g.db.WithContext(ctx).
		Preload("Article").
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load stats for student %d: %w", studentID, err)
	}
	return stats, nil
}

func (g *gormStore) StatsByArticle(ctx context.Context, articleID uint) ([]models.ReadingStat, error) {
	var stats []models.ReadingStat
	if err := g.db.WithContext(ctx).
		Preload("Student").
		Preload("Sessions").
		Where("article_id = ?", articleID).
		Order("id ASC").
		Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load stats for article %d: %w", articleID, err)
	}
	return stats, nil
}

// UpsertStat is the single mutating path of the engine. The conditional
// insert rides on the (article_id, student_id) unique index: when the row
// exists the counters are incremented in the same statement, so concurrent
// reports for one pair can neither double-create nor lose an update.
func (g *gormStore) UpsertStat(ctx context.Context, articleID, studentID uint, durationSeconds int64, now, sessionStart, sessionEnd time.Time) (*models.ReadingStat, error) {
	db := g.db.WithContext(ctx)

	stat := models.ReadingStat{
		ArticleID:  articleID,
		StudentID:  studentID,
		Views:      1,
		Duration:   durationSeconds,
		LastViewed: now,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}, {Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"views":       gorm.Expr("views + 1"),
			"duration":    gorm.Expr("duration + ?", durationSeconds),
			"last_viewed": now,
			"updated_at":  now,
		}),
	}).Create(&stat).Error; err != nil {
		return nil, fmt.Errorf("upsert stat (article=%d student=%d): %w", articleID, studentID, err)
	}

	// Reload to observe the post-increment counters; the Create above leaves
	// the in-memory struct stale on the update path.
	if err := db.Where("article_id = ? AND student_id = ?", articleID, studentID).
		First(&stat).Error; err != nil {
		return nil, fmt.Errorf("reload stat (article=%d student=%d): %w", articleID, studentID, err)
	}

	session := models.ReadingSession{
		ReadingStatID: stat.ID,
		StartTime:     sessionStart,
		EndTime:       sessionEnd,
		Duration:      durationSeconds,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("append session (stat=%d): %w", stat.ID, err)
	}
	stat.Sessions = append(stat.Sessions, session)

	return &stat, nil
}
