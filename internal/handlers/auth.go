package handlers

import (
	"errors"
	"net/http"

	"github.com/dzyusuf20/voting-appAPI/internal/auth"
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ObtainToken handles POST /token/
func ObtainToken(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	access, err := auth.NewAccessToken(&user, cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	refresh, err := auth.NewRefreshToken(&user, cfg.JWTSecret, cfg.RefreshTTL)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"refresh": refresh, "access": access})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshToken handles POST /token/refresh/
func RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		jsonError(c, http.StatusBadRequest, "refresh is required")
		return
	}

	claims, err := auth.ParseToken(req.Refresh, cfg.JWTSecret)
	if err != nil || claims.Type != auth.TokenRefresh {
		jsonError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	access, err := auth.NewAccessToken(&user, cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// RegisterAdmin handles POST /register-admin/
func RegisterAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := auth.ValidateUsername(req.Username); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := auth.ValidatePassword(req.Password, req.Username); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	database.DB.Model(&models.User{}).
		Where("username = ?", req.Username).
		Count(&count)
	if count > 0 {
		jsonError(c, http.StatusBadRequest, "username is already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create admin")
		return
	}

	admin := models.NewAdmin(req.Username, hash)
	if err := database.DB.Create(&admin).Error; err != nil {
		// the pre-check above races against concurrent registrations
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusBadRequest, "username is already taken")
			return
		}
		jsonError(c, http.StatusInternalServerError, "failed to create admin")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Admin created", "username": admin.Username})
}

// Me handles GET /me/
func Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"id":                   user.ID,
		"username":             user.Username,
		"is_app_admin":         user.IsAppAdmin(),
		"is_participant":       user.IsPeserta(),
		"must_change_password": user.MustChangePassword,
	})
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /change-password/
func ChangePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword, user.Username); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update password")
		return
	}

	// one UPDATE so the forced-reset flag cannot outlive the old password
	updates := map[string]interface{}{"password_hash": hash}
	if user.IsPeserta() && user.MustChangePassword {
		updates["must_change_password"] = false
	}
	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
