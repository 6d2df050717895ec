package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/constants"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/services"
)

// respondServiceError maps service errors to API error responses
func respondServiceError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		apierrors.Forbidden(c, permErr.Reason)
		return
	}

	switch {
	// 400
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.AlreadyExists(c, "Username already registered")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, "Email already registered")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.AlreadyExists(c, "User is already a member of this board")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidParentTask),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrSearchQueryEmpty),
		errors.Is(err, services.ErrAvatarURLMissing):
		apierrors.BadRequest(c, capitalize(err.Error()))

	// 401
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Incorrect email or password")

	// 403
	case errors.Is(err, services.ErrAdminExists):
		apierrors.Forbidden(c, "Admin already exists. Registration is disabled.")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.InsufficientPermissions(c, "This role cannot be self-assigned")
	case errors.Is(err, services.ErrGuestCannotCreate):
		apierrors.InsufficientPermissions(c, "Guests cannot create boards")
	case errors.Is(err, services.ErrBoardIsPrivate):
		apierrors.Forbidden(c, "This board is private. Only public boards can be accessed without authentication.")
	case errors.Is(err, services.ErrNotSelf):
		apierrors.Forbidden(c, "You can only update your own account")

	// 404
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, "Board not found")
	case errors.Is(err, services.ErrTargetBoardNotFound):
		apierrors.NotFound(c, "Target board not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotBoardMember):
		apierrors.NotFound(c, "User is not a member of this board")

	// AI
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())

	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
