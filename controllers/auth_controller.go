package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readscope/readscope/config"
	"github.com/readscope/readscope/middleware"
	"github.com/readscope/readscope/models"
	"github.com/readscope/readscope/utils"
)

// AuthController handles registration, login, and session lifecycle.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a new teacher or student account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=1,max=128"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		utils.Fail(ctx, http.StatusBadRequest, "role must be teacher or student")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "user already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to check existing user")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         utils.SanitizeText(strings.TrimSpace(req.Name)),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.Created(ctx, gin.H{"token": token, "user": user})
}

// Login authenticates by email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "please provide email and password")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.OK(ctx, gin.H{"token": token, "user": user})
}

// Profile returns the authenticated user's account.
func (a *AuthController) Profile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "user not found")
		return
	}

	utils.OK(ctx, gin.H{"user": user})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Fail(ctx, http.StatusBadRequest, "missing bearer token")
		return
	}

	claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		utils.Fail(ctx, http.StatusUnauthorized, "invalid token")
		return
	}

	if claims.ExpiresAt != nil {
		utils.BlacklistToken(claims.ID, claims.ExpiresAt.Time)
	}
	utils.OK(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
	ttl := time.Duration(config.Get().TokenTTLHours) * time.Hour
	return utils.GenerateToken(user.ID, user.Name, user.Role, ttl)
}

// getUserID extracts the authenticated user ID stored by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
