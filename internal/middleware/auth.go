package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/types"
)

type AuthenticatedUser struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

func abort(ctx *gin.Context, detail string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.Envelope{
		StatusCode: types.StatusCodeFailure,
		Detail:     detail,
	})
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abort(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := auth.VerifyJWT(parts[1], auth.TokenAccess)

		if err != nil {
			abort(ctx, err.Error())
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			abort(ctx, "User not found")
			return
		}

		if !user.Active {
			abort(ctx, "User account is inactive")
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		})
		ctx.Next()
	}
}
