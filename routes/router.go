package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readscope/readscope/analytics"
	"github.com/readscope/readscope/config"
	"github.com/readscope/readscope/controllers"
	"github.com/readscope/readscope/middleware"
	"github.com/readscope/readscope/models"
	"github.com/readscope/readscope/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	svc := analytics.NewService(analytics.NewGormStore(db))

	authController := controllers.NewAuthController(db)
	articleController := controllers.NewArticleController(db)
	analyticsController := controllers.NewAnalyticsController(svc)
	trackingController := controllers.NewTrackingController(svc)
	highlightController := controllers.NewHighlightController(db)

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		utils.OK(ctx, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/profile", middleware.AuthRequired(), authController.Profile)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	articlesGroup := api.Group("/articles")
	articlesGroup.Use(middleware.AuthRequired())
	articlesGroup.GET("", articleController.ListArticles)
	articlesGroup.GET("/my-articles", middleware.RequireRole(models.RoleTeacher), articleController.MyArticles)
	articlesGroup.GET("/:id", articleController.GetArticle)
	articlesGroup.POST("", middleware.RequireRole(models.RoleTeacher), articleController.CreateArticle)
	articlesGroup.PUT("/:id", middleware.RequireRole(models.RoleTeacher), articleController.UpdateArticle)
	articlesGroup.DELETE("/:id", middleware.RequireRole(models.RoleTeacher), articleController.DeleteArticle)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Use(middleware.AuthRequired())
	analyticsGroup.GET("", analyticsController.TeacherAnalytics)
	analyticsGroup.GET("/student", analyticsController.StudentAnalytics)
	analyticsGroup.POST("/track", analyticsController.Track)

	trackingGroup := api.Group("/tracking")
	trackingGroup.Use(middleware.AuthRequired())
	trackingGroup.POST("", trackingController.Track)
	trackingGroup.GET("/article/:articleId", trackingController.ArticleStats)
	trackingGroup.GET("/student", trackingController.StudentProgress)

	highlightsGroup := api.Group("/highlights")
	highlightsGroup.Use(middleware.AuthRequired())
	highlightsGroup.POST("", highlightController.CreateHighlight)
	highlightsGroup.GET("", highlightController.ListHighlights)
	highlightsGroup.PUT("/:id", highlightController.UpdateHighlight)
	highlightsGroup.DELETE("/:id", highlightController.DeleteHighlight)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
