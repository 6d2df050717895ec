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
	"gorm.io/gorm"
)

// RequireTaskAccess loads the task named by the id parameter and checks that
// the caller may perform action on the task's board
func RequireTaskAccess(taskRepo repository.TaskRepository, boardRepo repository.BoardRepository, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := taskRepo.FindByID(c.Request.Context(), taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
				return
			}
			apierrors.InternalError(c, "Failed to load task")
			return
		}

		board, err := boardRepo.FindByID(c.Request.Context(), task.BoardID)
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

		c.Set(constants.ContextKeyTask, task)
		c.Set(constants.ContextKeyBoard, board)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
