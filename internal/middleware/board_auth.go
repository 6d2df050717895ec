package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/constants"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/policy"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
	"gorm.io/gorm"
)

// RequireBoardAccess loads the board named by the id parameter and checks
// that the caller may perform action on it
func RequireBoardAccess(boardRepo repository.BoardRepository, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board ID")
			return
		}

		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		board, err := boardRepo.FindByID(c.Request.Context(), boardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Board not found")
				return
			}
			apierrors.InternalError(c, "Failed to load board")
			return
		}

		if !authorizeBoard(c, board, actor, action) {
			return
		}

		c.Set(constants.ContextKeyBoard, board)
		c.Next()
	}
}

// GetBoard retrieves the board loaded by RequireBoardAccess or RequireTaskAccess
func GetBoard(c *gin.Context) (*models.Board, bool) {
	value, exists := c.Get(constants.ContextKeyBoard)
	if !exists {
		return nil, false
	}
	board, ok := value.(*models.Board)
	return board, ok
}

// authorizeBoard writes a 403 carrying the deny reason when the check fails
func authorizeBoard(c *gin.Context, board *models.Board, actor services.Actor, action policy.Action) bool {
	if err := services.Authorize(board, actor, action); err != nil {
		var permErr *services.PermissionError
		if errors.As(err, &permErr) {
			apierrors.Forbidden(c, permErr.Reason)
		} else {
			apierrors.Forbidden(c, "")
		}
		return false
	}
	return true
}
