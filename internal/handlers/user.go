package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListPublicUsers lists users without contact details. No authentication needed.
func (h *UserHandler) ListPublicUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, err := h.userService.ListUsers(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicUserDTOs(users))
}

// GetCurrentUser returns the authenticated user
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListMyTasks returns the tasks created by the authenticated user
func (h *UserHandler) ListMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, err := h.userService.ListCreatedTasks(c.Request.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, err := h.userService.ListUsers(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a specific user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdatePassword changes the caller's own password
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	userID, ok := parseIDParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	type PasswordRequest struct {
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), actorID, userID, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// UpdateAvatar sets the caller's own avatar URL
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	userID, ok := parseIDParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	type AvatarRequest struct {
		AvatarURL string `json:"avatar_url" binding:"required"`
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.ChangeAvatar(c.Request.Context(), actorID, userID, req.AvatarURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Avatar updated successfully",
		"avatar_url": user.AvatarURL,
	})
}

// GetAvatar returns a user's avatar URL
func (h *UserHandler) GetAvatar(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvatarResponse{UserID: user.ID, AvatarURL: user.AvatarURL})
}
