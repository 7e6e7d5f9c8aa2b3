package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readscope/readscope/models"
	"github.com/readscope/readscope/utils"
)

// ArticleController manages CRUD operations for articles and their content blocks.
type ArticleController struct {
	db *gorm.DB
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(db *gorm.DB) *ArticleController {
	return &ArticleController{db: db}
}

type contentBlockRequest struct {
	Kind    string `json:"type" binding:"required"`
	Content string `json:"content" binding:"required"`
	Order   int    `json:"order"`
}

type articleRequest struct {
	Title    string                `json:"title" binding:"required,min=1"`
	Category string                `json:"category" binding:"required"`
	Blocks   []contentBlockRequest `json:"contentBlocks" binding:"required,min=1"`
}

// ListArticles returns articles filtered by optional category and title search.
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	category := strings.TrimSpace(ctx.Query("category"))
	search := strings.TrimSpace(ctx.Query("search"))

	// Cache category listings only; search terms would explode the key space.
	cacheKey := "cache:articles:list:cat=" + category
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := c.db.Preload("CreatedBy").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list articles")
		return
	}

	payload := gin.H{"count": len(articles), "articles": articles}
	if search == "" {
		wrapper := gin.H{"success": true}
		for k, v := range payload {
			wrapper[k] = v
		}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.OK(ctx, payload)
}

// GetArticle returns a single article with its ordered content blocks.
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	articleID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
		return
	}

	cacheKey := "cache:article:detail:" + strconv.FormatUint(uint64(articleID), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var article models.Article
	err = c.db.Preload("CreatedBy").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&article, articleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "article not found")
			return
		}
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	utils.CacheSetJSON(cacheKey, gin.H{"success": true, "article": article}, time.Hour)
	utils.OK(ctx, gin.H{"article": article})
}

// MyArticles lists the calling teacher's own articles.
func (c *ArticleController) MyArticles(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	var articles []models.Article
	err := c.db.Preload("CreatedBy").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("created_by_id = ?", teacherID).
		Order("created_at DESC").
		Find(&articles).Error
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list articles")
		return
	}

	utils.OK(ctx, gin.H{"count": len(articles), "articles": articles})
}

// CreateArticle creates an article with its content blocks.
func (c *ArticleController) CreateArticle(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	var req articleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "please provide all required fields")
		return
	}

	blocks, err := buildBlocks(req.Blocks)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidCategory(req.Category) {
		utils.Fail(ctx, http.StatusBadRequest, "invalid category")
		return
	}

	article := models.Article{
		Title:       utils.SanitizeText(strings.TrimSpace(req.Title)),
		Category:    req.Category,
		CreatedByID: teacherID,
		Blocks:      blocks,
	}
	if article.Title == "" {
		utils.Fail(ctx, http.StatusBadRequest, "title cannot be empty")
		return
	}

	if err := c.db.Create(&article).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to create article")
		return
	}

	c.invalidateArticleCaches(article.ID)
	c.db.Preload("CreatedBy").First(&article, article.ID)
	utils.Created(ctx, gin.H{"article": article})
}

// UpdateArticle replaces the article's fields and blocks; only the owner may update.
func (c *ArticleController) UpdateArticle(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	articleID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
		return
	}

	var article models.Article
	if err := c.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "article not found")
			return
		}
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article.CreatedByID != teacherID {
		utils.Fail(ctx, http.StatusForbidden, "not authorized to update this article")
		return
	}

	var req articleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "please provide all required fields")
		return
	}
	blocks, err := buildBlocks(req.Blocks)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidCategory(req.Category) {
		utils.Fail(ctx, http.StatusBadRequest, "invalid category")
		return
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ContentBlock{}).Error; err != nil {
			return err
		}
		article.Title = utils.SanitizeText(strings.TrimSpace(req.Title))
		article.Category = req.Category
		article.Blocks = blocks
		return tx.Save(&article).Error
	})
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update article")
		return
	}

	c.invalidateArticleCaches(article.ID)
	c.db.Preload("CreatedBy").First(&article, article.ID)
	utils.OK(ctx, gin.H{"article": article})
}

// DeleteArticle removes an owned article and its blocks. Reading stats for
// the article are left in place; rollups treat them as dangling references.
func (c *ArticleController) DeleteArticle(ctx *gin.Context) {
	teacherID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "teacher authentication required")
		return
	}

	articleID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid article ID")
		return
	}

	var article models.Article
	if err := c.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "article not found")
			return
		}
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article.CreatedByID != teacherID {
		utils.Fail(ctx, http.StatusForbidden, "not authorized to delete this article")
		return
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ContentBlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to delete article")
		return
	}

	c.invalidateArticleCaches(article.ID)
	utils.OK(ctx, gin.H{"message": "article deleted successfully"})
}

func (c *ArticleController) invalidateArticleCaches(articleID uint) {
	utils.InvalidateByPrefix("cache:articles:list:")
	utils.InvalidateByPrefix("cache:article:detail:" + strconv.FormatUint(uint64(articleID), 10))
}

// buildBlocks validates and sanitizes incoming content blocks, preserving order indexes.
func buildBlocks(reqs []contentBlockRequest) ([]models.ContentBlock, error) {
	blocks := make([]models.ContentBlock, 0, len(reqs))
	for _, b := range reqs {
		if !models.ValidBlockKind(b.Kind) {
			return nil, errors.New("invalid content block type")
		}
		content := strings.TrimSpace(b.Content)
		if b.Kind == models.BlockText {
			content = utils.SanitizeHTML(content)
		}
		if content == "" {
			return nil, errors.New("content block cannot be empty")
		}
		blocks = append(blocks, models.ContentBlock{
			Kind:     b.Kind,
			Content:  content,
			Position: b.Order,
		})
	}
	return blocks, nil
}

// parseID parses a positive numeric identifier from a path or query value.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(id), nil
}
