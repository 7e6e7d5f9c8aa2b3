package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/readscope/readscope/models"
)

// memStore is an in-memory Store used to exercise the engine without a
// database. The mutex mirrors the atomicity the SQL upsert provides per
// (article, student) pair.
type memStore struct {
	mu       sync.Mutex
	articles map[uint]models.Article
	users    map[uint]models.User
	stats    []*models.ReadingStat
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		articles: map[uint]models.Article{},
		users:    map[uint]models.User{},
	}
}

func (m *memStore) addArticle(id uint, title, category string, ownerID uint) {
	m.articles[id] = models.Article{ID: id, Title: title, Category: category, CreatedByID: ownerID}
}

func (m *memStore) addStudent(id uint, name, email string) {
	m.users[id] = models.User{ID: id, Name: name, Email: email, Role: models.RoleStudent}
}

// seedStat installs an aggregate directly, bypassing the recorder.
func (m *memStore) seedStat(articleID, studentID uint, views, durationSeconds int64, lastViewed time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.stats = append(m.stats, &models.ReadingStat{
		ID:         m.nextID,
		ArticleID:  articleID,
		StudentID:  studentID,
		Views:      views,
		Duration:   durationSeconds,
		LastViewed: lastViewed,
	})
}

func (m *memStore) statCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stats)
}

func (m *memStore) ArticlesByOwner(_ context.Context, teacherID uint) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Deterministic id order, matching the SQL store.
	out := []models.Article{}
	for id := uint(1); id <= m.nextArticleID(); id++ {
		if a, ok := m.articles[id]; ok && a.CreatedByID == teacherID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) nextArticleID() uint {
	var maxID uint
	for id := range m.articles {
		if id > maxID {
			maxID = id
		}
	}
	return maxID
}

func (m *memStore) ArticleByID(_ context.Context, articleID uint) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[articleID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *memStore) StatsByArticleIDs(_ context.Context, articleIDs []uint) ([]models.ReadingStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[uint]struct{}{}
	for _, id := range articleIDs {
		wanted[id] = struct{}{}
	}
	out := []models.ReadingStat{}
	for _, st := range m.stats {
		if _, ok := wanted[st.ArticleID]; !ok {
			continue
		}
		cp := *st
		cp.Student = m.users[st.StudentID]
		out = append(out, cp)
	}
	return out, nil
}

func (m *memStore) StatsByStudent(_ context.Context, studentID uint) ([]models.ReadingStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ReadingStat{}
	for _, st := range m.stats {
		if st.StudentID != studentID {
			continue
		}
		cp := *st
		cp.Article = m.articles[st.ArticleID] // zero value when unresolved
		out = append(out, cp)
	}
	return out, nil
}

func (m *memStore) StatsByArticle(_ context.Context, articleID uint) ([]models.ReadingStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ReadingStat{}
	for _, st := range m.stats {
		if st.ArticleID != articleID {
			continue
		}
		cp := *st
		cp.Student = m.users[st.StudentID]
		cp.Sessions = append([]models.ReadingSession{}, st.Sessions...)
		out = append(out, cp)
	}
	return out, nil
}

func (m *memStore) UpsertStat(_ context.Context, articleID, studentID uint, durationSeconds int64, now, sessionStart, sessionEnd time.Time) (*models.ReadingStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := models.ReadingSession{
		StartTime: sessionStart,
		EndTime:   sessionEnd,
		Duration:  durationSeconds,
	}

	for _, st := range m.stats {
		if st.ArticleID == articleID && st.StudentID == studentID {
			st.Views++
			st.Duration += durationSeconds
			st.LastViewed = now
			st.Sessions = append(st.Sessions, session)
			cp := *st
			return &cp, nil
		}
	}

	m.nextID++
	st := &models.ReadingStat{
		ID:         m.nextID,
		ArticleID:  articleID,
		StudentID:  studentID,
		Views:      1,
		Duration:   durationSeconds,
		LastViewed: now,
		Sessions:   []models.ReadingSession{session},
	}
	m.stats = append(m.stats, st)
	cp := *st
	return &cp, nil
}

// fakeClock is a settable clock for pinning "today".
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
