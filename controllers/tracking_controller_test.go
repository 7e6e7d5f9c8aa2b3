package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readscope/readscope/analytics"
	"github.com/readscope/readscope/middleware"
	"github.com/readscope/readscope/models"
)

// stubStore is a minimal analytics.Store for handler tests: a fixed set of
// articles and a single mutable aggregate.
type stubStore struct {
	articles map[uint]models.Article
	stat     *models.ReadingStat
}

func newStubStore() *stubStore {
	return &stubStore{
		articles: map[uint]models.Article{
			1: {ID: 1, Title: "Photosynthesis", Category: "Science", CreatedByID: 5},
		},
	}
}

func (s *stubStore) ArticlesByOwner(_ context.Context, teacherID uint) ([]models.Article, error) {
	out := []models.Article{}
	for _, a := range s.articles {
		if a.CreatedByID == teacherID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubStore) ArticleByID(_ context.Context, articleID uint) (*models.Article, error) {
	a, ok := s.articles[articleID]
	if !ok {
		return nil, analytics.ErrNotFound
	}
	return &a, nil
}

func (s *stubStore) StatsByArticleIDs(context.Context, []uint) ([]models.ReadingStat, error) {
	if s.stat == nil {
		return []models.ReadingStat{}, nil
	}
	return []models.ReadingStat{*s.stat}, nil
}

func (s *stubStore) StatsByStudent(context.Context, uint) ([]models.ReadingStat, error) {
	if s.stat == nil {
		return []models.ReadingStat{}, nil
	}
	cp := *s.stat
	cp.Article = s.articles[cp.ArticleID]
	return []models.ReadingStat{cp}, nil
}

func (s *stubStore) StatsByArticle(context.Context, uint) ([]models.ReadingStat, error) {
	if s.stat == nil {
		return []models.ReadingStat{}, nil
	}
	return []models.ReadingStat{*s.stat}, nil
}

func (s *stubStore) UpsertStat(_ context.Context, articleID, studentID uint, durationSeconds int64, now, sessionStart, sessionEnd time.Time) (*models.ReadingStat, error) {
	session := models.ReadingSession{StartTime: sessionStart, EndTime: sessionEnd, Duration: durationSeconds}
	if s.stat == nil || s.stat.ArticleID != articleID || s.stat.StudentID != studentID {
		s.stat = &models.ReadingStat{
			ID:         1,
			ArticleID:  articleID,
			StudentID:  studentID,
			Views:      1,
			Duration:   durationSeconds,
			LastViewed: now,
			Sessions:   []models.ReadingSession{session},
		}
	} else {
		s.stat.Views++
		s.stat.Duration += durationSeconds
		s.stat.LastViewed = now
		s.stat.Sessions = append(s.stat.Sessions, session)
	}
	cp := *s.stat
	return &cp, nil
}

// trackingRouter wires the tracking routes the way the real router does, with
// a stub auth middleware injecting the given user.
func trackingRouter(store *stubStore, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := analytics.NewService(store)
	tc := NewTrackingController(svc)

	r := gin.New()
	group := r.Group("/api/tracking")
	if userID != 0 {
		group.Use(func(ctx *gin.Context) {
			ctx.Set(middleware.ContextUserIDKey, userID)
			ctx.Next()
		})
	}
	group.POST("", tc.Track)
	group.GET("/article/:articleId", tc.ArticleStats)
	group.GET("/student", tc.StudentProgress)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, parsed
}

func TestTrackSession(t *testing.T) {
	store := newStubStore()
	r := trackingRouter(store, 7)

	w, body := doJSON(t, r, http.MethodPost, "/api/tracking",
		`{"articleId":1,"duration":120,"sessionStart":"2026-03-10T11:58:00Z","sessionEnd":"2026-03-10T12:00:00Z"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "view tracked successfully" {
		t.Errorf("message = %v", body["message"])
	}
	stats, ok := body["analytics"].(map[string]interface{})
	if !ok {
		t.Fatalf("analytics payload missing: %v", body)
	}
	if stats["totalViews"] != float64(1) {
		t.Errorf("totalViews = %v, want 1", stats["totalViews"])
	}
	if stats["totalDuration"] != float64(120) {
		t.Errorf("totalDuration = %v, want 120", stats["totalDuration"])
	}
	if store.stat == nil || len(store.stat.Sessions) != 1 {
		t.Fatalf("expected one stored session, got %+v", store.stat)
	}
	wantStart := time.Date(2026, 3, 10, 11, 58, 0, 0, time.UTC)
	if !store.stat.Sessions[0].StartTime.Equal(wantStart) {
		t.Errorf("session start = %v, want %v", store.stat.Sessions[0].StartTime, wantStart)
	}
}

func TestTrackSessionAccumulates(t *testing.T) {
	store := newStubStore()
	r := trackingRouter(store, 7)

	doJSON(t, r, http.MethodPost, "/api/tracking", `{"articleId":1,"duration":60}`)
	_, body := doJSON(t, r, http.MethodPost, "/api/tracking", `{"articleId":1,"duration":90}`)

	stats := body["analytics"].(map[string]interface{})
	if stats["totalViews"] != float64(2) {
		t.Errorf("totalViews = %v, want 2", stats["totalViews"])
	}
	if stats["totalDuration"] != float64(150) {
		t.Errorf("totalDuration = %v, want 150", stats["totalDuration"])
	}
}

func TestTrackSessionValidation(t *testing.T) {
	tests := []struct {
		name       string
		userID     uint
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"missing article id", 7, `{"duration":60}`, http.StatusBadRequest, "article ID is required"},
		{"malformed body", 7, `{`, http.StatusBadRequest, "article ID is required"},
		{"unknown article", 7, `{"articleId":42,"duration":60}`, http.StatusNotFound, "article not found"},
		{"unauthenticated", 0, `{"articleId":1,"duration":60}`, http.StatusUnauthorized, "student authentication required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := trackingRouter(newStubStore(), tt.userID)
			w, body := doJSON(t, r, http.MethodPost, "/api/tracking", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMsg)
			}
		})
	}
}

func TestArticleStatsEndpoint(t *testing.T) {
	store := newStubStore()
	r := trackingRouter(store, 7)
	doJSON(t, r, http.MethodPost, "/api/tracking", `{"articleId":1,"duration":60}`)

	// Owner sees the breakdown.
	owner := trackingRouter(store, 5)
	w, body := doJSON(t, owner, http.MethodGet, "/api/tracking/article/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	stats, ok := body["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("stats payload missing: %v", body)
	}
	if stats["articleTitle"] != "Photosynthesis" {
		t.Errorf("articleTitle = %v", stats["articleTitle"])
	}
	if stats["totalViews"] != float64(1) {
		t.Errorf("totalViews = %v, want 1", stats["totalViews"])
	}

	// A non-owner gets the same answer as for a missing article.
	other := trackingRouter(store, 6)
	w, _ = doJSON(t, other, http.MethodGet, "/api/tracking/article/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("non-owner status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, owner, http.MethodGet, "/api/tracking/article/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestStudentProgressEndpoint(t *testing.T) {
	store := newStubStore()
	r := trackingRouter(store, 7)
	doJSON(t, r, http.MethodPost, "/api/tracking", `{"articleId":1,"duration":120}`)

	w, body := doJSON(t, r, http.MethodGet, "/api/tracking/student", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	progress, ok := body["progress"].(map[string]interface{})
	if !ok {
		t.Fatalf("progress payload missing: %v", body)
	}
	if progress["totalViews"] != float64(1) {
		t.Errorf("totalViews = %v, want 1", progress["totalViews"])
	}
	if progress["totalTimeSpent"] != float64(2) {
		t.Errorf("totalTimeSpent = %v, want 2", progress["totalTimeSpent"])
	}
	categories, ok := progress["categoryStats"].(map[string]interface{})
	if !ok || len(categories) != 1 {
		t.Fatalf("categoryStats = %v, want one category", progress["categoryStats"])
	}
	if _, ok := categories["Science"]; !ok {
		t.Errorf("categoryStats missing Science: %v", categories)
	}
}
