package analytics

import (
	"context"
	"time"

	"github.com/readscope/readscope/models"
)

// RecordActivity merges one reading-activity report into the aggregate for
// the (article, student) pair. Both tracking call shapes route through here:
// a bare view carries nil session bounds, a timed session carries explicit
// ones. Missing bounds default to the current time so every report still
// yields exactly one session entry.
//
// The underlying upsert is atomic per pair: concurrent reports never race
// the create branch and never lose an increment.
func (s *Service) RecordActivity(ctx context.Context, articleID, studentID uint, durationSeconds int64, sessionStart, sessionEnd *time.Time) (*models.ReadingStat, error) {
	if studentID == 0 {
		return nil, ErrUnauthorized
	}
	if articleID == 0 {
		return nil, ErrInvalidReference
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	if _, err := s.store.ArticleByID(ctx, articleID); err != nil {
		return nil, err
	}

	now := s.now()
	start, end := now, now
	if sessionStart != nil {
		start = *sessionStart
	}
	if sessionEnd != nil {
		end = *sessionEnd
	}

	return s.store.UpsertStat(ctx, articleID, studentID, durationSeconds, now, start, end)
}
