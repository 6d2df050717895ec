package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/constants"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
)

// RequireAuth checks the bearer token and loads the caller's role
func RequireAuth(issuer *auth.TokenIssuer, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			return
		}

		userID, err := issuer.Validate(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apierrors.TokenExpired(c)
				return
			}
			apierrors.Unauthorized(c, "Could not validate credentials")
			return
		}

		// Tokens of deleted users are rejected like any other invalid token
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.Role)
	return r, ok
}

// GetActor combines the current user ID and role
func GetActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: role}, true
}
