package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readscope/readscope/analytics"
	"github.com/readscope/readscope/utils"
)

// AnalyticsController exposes the dashboard rollups and the bare view tracker.
type AnalyticsController struct {
	svc *analytics.Service
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(svc *analytics.Service) *AnalyticsController {
	return &AnalyticsController{svc: svc}
}

// TeacherAnalytics returns the calling teacher's full dashboard rollup.
func (a *AnalyticsController) TeacherAnalytics(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	result, err := a.svc.TeacherAnalytics(ctx.Request.Context(), teacherID)
	if err != nil {
		failAnalytics(ctx, err, "failed to fetch analytics")
		return
	}
	utils.OK(ctx, gin.H{"analytics": result})
}

// StudentAnalytics returns the calling student's dashboard rollup.
func (a *AnalyticsController) StudentAnalytics(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "student authentication required")
		return
	}

	result, err := a.svc.StudentAnalytics(ctx.Request.Context(), studentID)
	if err != nil {
		failAnalytics(ctx, err, "failed to fetch analytics")
		return
	}
	utils.OK(ctx, gin.H{"analytics": result})
}

// Track records a bare view: no session bounds, duration optional.
func (a *AnalyticsController) Track(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "student authentication required")
		return
	}

	var req struct {
		ArticleID uint  `json:"articleId" binding:"required"`
		Duration  int64 `json:"duration"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "article ID is required")
		return
	}

	stat, err := a.svc.RecordActivity(ctx.Request.Context(), req.ArticleID, studentID, req.Duration, nil, nil)
	if err != nil {
		failAnalytics(ctx, err, "failed to track view")
		return
	}
	utils.OK(ctx, gin.H{"analytics": stat})
}

// failAnalytics maps the service's sentinel errors onto HTTP statuses.
func failAnalytics(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, analytics.ErrNotFound):
		utils.Fail(ctx, http.StatusNotFound, "article not found")
	case errors.Is(err, analytics.ErrUnauthorized):
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, analytics.ErrInvalidReference):
		utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
	default:
		utils.Fail(ctx, http.StatusInternalServerError, fallback)
	}
}
