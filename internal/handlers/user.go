package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

// BaseURL prefixes the password reset link sent in welcome emails.
var BaseURL = "http://localhost:3000"

// UserRequest is used for both creation and full replacement of an account.
type UserRequest struct {
	Username string      `json:"username" binding:"required,max=150"`
	Name     string      `json:"name" binding:"max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Phone    string      `json:"phone" binding:"max=15"`
	Role     models.Role `json:"role" binding:"required"`
	IsActive interface{} `json:"is_active"`
	Password string      `json:"password"`
}

type UserStatusRequest struct {
	IsActive interface{} `json:"is_active"`
}

func authorize(ctx *gin.Context, action auth.Action) error {
	current, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if err := auth.Authorize(current.Role, action); err != nil {
		return apperr.Forbidden("Forbidden")
	}
	return nil
}

func parseActive(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	active, err := utils.ParseFlexibleBool(value)
	if err != nil {
		return false, apperr.Invalid("Invalid is_active value")
	}
	return active, nil
}

// normalize validates the request and fills in the derived values.
func (r *UserRequest) normalize() (bool, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if !r.Role.Valid() {
		return false, apperr.Invalid(fmt.Sprintf("Invalid role: %s", r.Role))
	}

	return parseActive(r.IsActive)
}

func ensureUniqueAccount(tx *gorm.DB, username, email string, exceptID uint) error {
	var count int64

	query := tx.Model(&models.User{}).Where("(username = ? OR email = ?)", username, email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Count(&count).Error; err != nil {
		return apperr.Internal("Failed to check existing users", err)
	}

	if count > 0 {
		return apperr.Conflict("Username or email already exists")
	}

	return nil
}

func resetURL(userID uint) string {
	return fmt.Sprintf("%s/api/auth/users/%d/password", strings.TrimSuffix(BaseURL, "/"), userID)
}

func CreateUser(ctx *gin.Context) {
	if err := authorize(ctx, auth.ActionCreateAccount); err != nil {
		respondError(ctx, err)
		return
	}

	var body UserRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	active, err := body.normalize()

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := ensureUniqueAccount(db.DB, body.Username, body.Email, 0); err != nil {
		respondError(ctx, err)
		return
	}

	password := body.Password

	if password == "" {
		if password, err = auth.GeneratePassword(body.Email, body.Phone); err != nil {
			respondError(ctx, apperr.Internal("Failed to generate password", err))
			return
		}
	}

	hash, err := auth.HashPassword(password)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to hash password", err))
		return
	}

	user := models.User{
		Username:     body.Username,
		Name:         body.Name,
		Email:        body.Email,
		Phone:        body.Phone,
		Role:         body.Role,
		Active:       active,
		PasswordHash: hash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		respondError(ctx, dbError("Failed to create user", err))
		return
	}

	// The account stays even when the email cannot be delivered.
	if err := services.SendWelcomeEmail(user.Email, user.Username, password, resetURL(user.ID)); err != nil {
		log.Printf("Failed to send welcome email to user %d: %v", user.ID, err)
	}

	respond(ctx, http.StatusCreated, "User Created Successfully", user)
}

func ListUsers(ctx *gin.Context) {
	if err := authorize(ctx, auth.ActionListAccounts); err != nil {
		respondError(ctx, err)
		return
	}

	query := db.DB.Order("id")

	if role := ctx.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	users := []models.User{}

	if err := query.Find(&users).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve users", err))
		return
	}

	respond(ctx, http.StatusOK, "Users", users)
}

// UpdateUser replaces every editable field of the target account. An empty
// password keeps the current one.
func UpdateUser(ctx *gin.Context) {
	if err := authorize(ctx, auth.ActionUpdateAccount); err != nil {
		respondError(ctx, err)
		return
	}

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

	var body UserRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	active, err := body.normalize()

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := ensureUniqueAccount(db.DB, body.Username, body.Email, user.ID); err != nil {
		respondError(ctx, err)
		return
	}

	user.Username = body.Username
	user.Name = body.Name
	user.Email = body.Email
	user.Phone = body.Phone
	user.Role = body.Role
	user.Active = active

	if body.Password != "" {
		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			respondError(ctx, apperr.Internal("Failed to hash password", err))
			return
		}
		user.PasswordHash = hash
	}

	if err := db.DB.Save(&user).Error; err != nil {
		respondError(ctx, dbError("Failed to update user", err))
		return
	}

	respond(ctx, http.StatusOK, "User updated Successfully", user)
}

func DeleteUser(ctx *gin.Context) {
	if err := authorize(ctx, auth.ActionDeleteAccount); err != nil {
		respondError(ctx, err)
		return
	}

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

	if err := db.DB.Delete(&user).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete user", err))
		return
	}

	respond(ctx, http.StatusOK, "User Deleted Successfully", nil)
}

func SetUserStatus(ctx *gin.Context) {
	if err := authorize(ctx, auth.ActionAccountStatus); err != nil {
		respondError(ctx, err)
		return
	}

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

	var body UserStatusRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if body.IsActive == nil {
		respondError(ctx, apperr.Invalid("is_active is required"))
		return
	}

	active, err := parseActive(body.IsActive)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Model(&user).Update("active", active).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to update user status", err))
		return
	}

	user.Active = active

	respond(ctx, http.StatusOK, "User status updated", user)
}
