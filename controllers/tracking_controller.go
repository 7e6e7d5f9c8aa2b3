package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readscope/readscope/analytics"
	"github.com/readscope/readscope/utils"
)

// TrackingController exposes the timed-session tracker and its read views.
type TrackingController struct {
	svc *analytics.Service
}

// NewTrackingController creates a new TrackingController instance.
func NewTrackingController(svc *analytics.Service) *TrackingController {
	return &TrackingController{svc: svc}
}

// Track records a timed reading session with explicit bounds. Shares upsert
// semantics with the bare view tracker; only the response shape differs.
func (t *TrackingController) Track(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "student authentication required")
		return
	}

	var req struct {
		ArticleID    uint       `json:"articleId" binding:"required"`
		Duration     int64      `json:"duration"`
		SessionStart *time.Time `json:"sessionStart"`
		SessionEnd   *time.Time `json:"sessionEnd"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "article ID is required")
		return
	}

	stat, err := t.svc.RecordActivity(ctx.Request.Context(), req.ArticleID, studentID, req.Duration, req.SessionStart, req.SessionEnd)
	if err != nil {
		failAnalytics(ctx, err, "failed to track view")
		return
	}

	utils.OK(ctx, gin.H{
		"message": "view tracked successfully",
		"analytics": gin.H{
			"totalViews":    stat.Views,
			"totalDuration": stat.Duration,
			"lastViewed":    stat.LastViewed,
		},
	})
}

// ArticleStats returns per-student statistics for an owned article.
func (t *TrackingController) ArticleStats(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	articleID, err := parseID(ctx.Param("articleId"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
		return
	}

	stats, err := t.svc.ArticleStats(ctx.Request.Context(), articleID, teacherID)
	if err != nil {
		failAnalytics(ctx, err, "failed to get stats")
		return
	}
	utils.OK(ctx, gin.H{"stats": stats})
}

// StudentProgress returns the per-category progress view for the calling student.
func (t *TrackingController) StudentProgress(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	progress, err := t.svc.StudentProgress(ctx.Request.Context(), studentID)
	if err != nil {
		failAnalytics(ctx, err, "failed to get progress")
		return
	}
	utils.OK(ctx, gin.H{"progress": progress})
}
