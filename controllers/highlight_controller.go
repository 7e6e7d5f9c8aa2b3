package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readscope/readscope/models"
	"github.com/readscope/readscope/utils"
)

const highlightListLimit = 100

// HighlightController manages a student's highlighted passages.
type HighlightController struct {
	db *gorm.DB
}

// NewHighlightController creates a new HighlightController instance.
func NewHighlightController(db *gorm.DB) *HighlightController {
	return &HighlightController{db: db}
}

// CreateHighlight saves a highlighted passage, optionally annotated.
func (h *HighlightController) CreateHighlight(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "student authentication required")
		return
	}

	var req struct {
		ArticleID uint   `json:"articleId" binding:"required"`
		Text      string `json:"text" binding:"required"`
		Note      string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "article ID and text are required")
		return
	}

	text := utils.SanitizeText(strings.TrimSpace(req.Text))
	if text == "" {
		utils.Fail(ctx, http.StatusBadRequest, "text cannot be empty")
		return
	}
	if len(text) > models.HighlightTextMaxLen {
		utils.Fail(ctx, http.StatusBadRequest, "text exceeds maximum length")
		return
	}

	var article models.Article
	if err := h.db.First(&article, req.ArticleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "article not found")
			return
		}
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	note, err := sanitizeNote(req.Note)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	highlight := models.Highlight{
		ArticleID: req.ArticleID,
		StudentID: studentID,
		Text:      text,
		Note:      note,
	}

	if err := h.db.Create(&highlight).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to create highlight")
		return
	}

	utils.Created(ctx, gin.H{"highlight": highlight})
}

// ListHighlights returns the student's highlights, newest first, optionally
// filtered to one article.
func (h *HighlightController) ListHighlights(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	query := h.db.Where("student_id = ?", studentID)
	if raw := strings.TrimSpace(ctx.Query("articleId")); raw != "" {
		articleID, err := parseID(raw)
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
			return
		}
		query = query.Where("article_id = ?", articleID)
	}

	var highlights []models.Highlight
	if err := query.Order("created_at DESC").Limit(highlightListLimit).Find(&highlights).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to fetch highlights")
		return
	}

	utils.OK(ctx, gin.H{"highlights": highlights})
}

// UpdateHighlight replaces the note on an owned highlight.
func (h *HighlightController) UpdateHighlight(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	highlightID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid highlight ID")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var highlight models.Highlight
	if err := h.db.Where("id = ? AND student_id = ?", highlightID, studentID).First(&highlight).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "highlight not found")
		return
	}

	note, err := sanitizeNote(req.Note)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	highlight.Note = note

	if err := h.db.Save(&highlight).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update highlight")
		return
	}

	utils.OK(ctx, gin.H{"highlight": highlight})
}

// DeleteHighlight removes an owned highlight.
func (h *HighlightController) DeleteHighlight(ctx *gin.Context) {
	studentID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	highlightID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid highlight ID")
		return
	}

	var highlight models.Highlight
	if err := h.db.Where("id = ? AND student_id = ?", highlightID, studentID).First(&highlight).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "highlight not found")
		return
	}

	if err := h.db.Delete(&highlight).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to delete highlight")
		return
	}

	utils.OK(ctx, gin.H{"message": "highlight deleted successfully"})
}

// sanitizeNote strips markup and enforces the note length bound. An empty
// note clears the annotation.
func sanitizeNote(raw string) (*string, error) {
	note := utils.SanitizeText(strings.TrimSpace(raw))
	if note == "" {
		return nil, nil
	}
	if len(note) > models.HighlightNoteMaxLen {
		return nil, errors.New("note exceeds maximum length")
	}
	return &note, nil
}
