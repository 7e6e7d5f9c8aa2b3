package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/readscope/readscope/analytics"
	"github.com/readscope/readscope/middleware"
)

func analyticsRouter(store *stubStore, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := analytics.NewService(store)
	ac := NewAnalyticsController(svc)

	r := gin.New()
	group := r.Group("/api/analytics")
	if userID != 0 {
		group.Use(func(ctx *gin.Context) {
			ctx.Set(middleware.ContextUserIDKey, userID)
			ctx.Next()
		})
	}
	group.GET("", ac.TeacherAnalytics)
	group.GET("/student", ac.StudentAnalytics)
	group.POST("/track", ac.Track)
	return r
}

func TestTrackBareView(t *testing.T) {
	store := newStubStore()
	r := analyticsRouter(store, 7)

	w, body := doJSON(t, r, http.MethodPost, "/api/analytics/track", `{"articleId":1,"duration":45}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	stat, ok := body["analytics"].(map[string]interface{})
	if !ok {
		t.Fatalf("analytics payload missing: %v", body)
	}
	if stat["views"] != float64(1) {
		t.Errorf("views = %v, want 1", stat["views"])
	}
	if stat["duration"] != float64(45) {
		t.Errorf("duration = %v, want 45", stat["duration"])
	}
	// A bare view still records a session entry with defaulted bounds.
	sessions, ok := stat["sessionData"].([]interface{})
	if !ok || len(sessions) != 1 {
		t.Errorf("sessionData = %v, want one entry", stat["sessionData"])
	}
}

func TestTrackBareViewErrors(t *testing.T) {
	tests := []struct {
		name       string
		userID     uint
		body       string
		wantStatus int
	}{
		{"missing article id", 7, `{}`, http.StatusBadRequest},
		{"unknown article", 7, `{"articleId":42}`, http.StatusNotFound},
		{"unauthenticated", 0, `{"articleId":1}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyticsRouter(newStubStore(), tt.userID)
			w, body := doJSON(t, r, http.MethodPost, "/api/analytics/track", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
		})
	}
}

func TestTeacherAnalyticsEndpoint(t *testing.T) {
	store := newStubStore()
	tracker := analyticsRouter(store, 7)
	doJSON(t, tracker, http.MethodPost, "/api/analytics/track", `{"articleId":1,"duration":60}`)

	r := analyticsRouter(store, 5)
	w, body := doJSON(t, r, http.MethodGet, "/api/analytics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	rollup, ok := body["analytics"].(map[string]interface{})
	if !ok {
		t.Fatalf("analytics payload missing: %v", body)
	}
	overview, ok := rollup["overview"].(map[string]interface{})
	if !ok {
		t.Fatalf("overview missing: %v", rollup)
	}
	if overview["totalArticles"] != float64(1) {
		t.Errorf("totalArticles = %v, want 1", overview["totalArticles"])
	}
	if overview["totalViews"] != float64(1) {
		t.Errorf("totalViews = %v, want 1", overview["totalViews"])
	}
	days, ok := rollup["dailyEngagement"].([]interface{})
	if !ok || len(days) != 7 {
		t.Errorf("dailyEngagement = %v, want 7 entries", rollup["dailyEngagement"])
	}
}

func TestStudentAnalyticsEndpoint(t *testing.T) {
	store := newStubStore()
	r := analyticsRouter(store, 7)
	doJSON(t, r, http.MethodPost, "/api/analytics/track", `{"articleId":1,"duration":300}`)

	w, body := doJSON(t, r, http.MethodGet, "/api/analytics/student", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	rollup := body["analytics"].(map[string]interface{})
	overview := rollup["overview"].(map[string]interface{})
	if overview["totalArticlesRead"] != float64(1) {
		t.Errorf("totalArticlesRead = %v, want 1", overview["totalArticlesRead"])
	}
	if overview["totalTimeSpent"] != float64(5) {
		t.Errorf("totalTimeSpent = %v, want 5", overview["totalTimeSpent"])
	}
	recent, ok := rollup["recentArticles"].([]interface{})
	if !ok || len(recent) != 1 {
		t.Fatalf("recentArticles = %v, want one entry", rollup["recentArticles"])
	}
	entry := recent[0].(map[string]interface{})
	ref := entry["articleId"].(map[string]interface{})
	if ref["title"] != "Photosynthesis" {
		t.Errorf("recent title = %v", ref["title"])
	}
}
