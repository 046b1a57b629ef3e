package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	auth.TokenPair
	User models.User `json:"user"`
}

// LoginUser exchanges a username (or email) and password for a token pair.
func LoginUser(ctx *gin.Context) {
	var body LoginRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	identifier := strings.TrimSpace(body.Username)

	var user models.User

	err := db.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, apperr.Unauthenticated("Invalid credentials"))
			return
		}
		respondError(ctx, apperr.Internal("Failed to fetch user", err))
		return
	}

	if !user.Active || !auth.CheckPassword(user.PasswordHash, body.Password) {
		respondError(ctx, apperr.Unauthenticated("Invalid credentials"))
		return
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Email, string(user.Role))

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to generate tokens", err))
		return
	}

	respond(ctx, http.StatusOK, "Login successful", LoginResponse{TokenPair: pair, User: user})
}

func RefreshToken(ctx *gin.Context) {
	var body RefreshRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := auth.VerifyJWT(body.Refresh, auth.TokenRefresh)

	if err != nil {
		respondError(ctx, apperr.Unauthenticated(err.Error()))
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil || !user.Active {
		respondError(ctx, apperr.Unauthenticated("Invalid credentials"))
		return
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Email, string(user.Role))

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to generate tokens", err))
		return
	}

	respond(ctx, http.StatusOK, "Token refreshed", pair)
}

func Me(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var user models.User

	if err := lookup(db.DB, &user, current.ID, "User not found"); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Current user", user)
}

// ResetPassword sets a new password for the referenced account. The only
// check is that the record exists; the link is mailed at account creation.
func ResetPassword(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var user models.User

	if err := lookup(db.DB, &user, id, "User not found"); err != nil {
		respondError(ctx, err)
		return
	}

	var body ResetPasswordRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	hash, err := auth.HashPassword(body.Password)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to hash password", err))
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to update password", err))
		return
	}

	respond(ctx, http.StatusOK, "User password changed Successfully", nil)
}
