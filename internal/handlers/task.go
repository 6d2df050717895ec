package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks of a board, optionally filtered by status and priority
func (h *TaskHandler) ListTasks(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.ListBoardTasks(c.Request.Context(), services.ListTasksInput{
		BoardID:  board.ID,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Offset:   params.Offset,
		Limit:    params.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task at the end of a board
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title        string  `json:"title" binding:"required"`
		Description  *string `json:"description"`
		Status       string  `json:"status"`
		Priority     string  `json:"priority"`
		ParentTaskID *uint64 `json:"parent_task_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, board.ID, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		ParentTaskID: req.ParentTaskID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task of a board
func (h *TaskHandler) GetTask(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Invalid task ID")
	if !ok {
		return
	}

	task, err := h.taskService.GetBoardTask(c.Request.Context(), board.ID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates the fields present in the request body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Invalid task ID")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, board.ID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Invalid task ID")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, board.ID, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveTask moves a task to another board
func (h *TaskHandler) MoveTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Invalid task ID")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "targetId", "Invalid target board ID")
	if !ok {
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), actor, board.ID, taskID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// BulkUpdateStatus sets one status on many tasks
func (h *TaskHandler) BulkUpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type BulkStatusRequest struct {
		TaskIDs   []uint64 `json:"task_ids" binding:"required"`
		NewStatus string   `json:"new_status" binding:"required"`
	}

	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.BulkSetStatus(c.Request.Context(), actor, board.ID, req.TaskIDs, req.NewStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": updated,
		"message": fmt.Sprintf("Updated %d tasks to status '%s'", updated, req.NewStatus),
	})
}

// BulkDeleteTasks deletes many tasks at once
func (h *TaskHandler) BulkDeleteTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type BulkDeleteRequest struct {
		TaskIDs []uint64 `json:"task_ids" binding:"required"`
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	deleted, err := h.taskService.BulkDelete(c.Request.Context(), actor, board.ID, req.TaskIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"message": fmt.Sprintf("Deleted %d tasks", deleted),
	})
}

// ReorderTasks sets task positions from an ordered list of IDs
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type ReorderRequest struct {
		OrderedIDs []uint64 `json:"ordered_ids" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reordered, err := h.taskService.Reorder(c.Request.Context(), actor, board.ID, req.OrderedIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reordered": reordered,
		"message":   "Tasks reordered successfully",
	})
}

// GenerateTasks uses AI to suggest tasks for a board from text
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	suggestions, err := h.taskService.GenerateTasks(ctx, board, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": suggestions,
	})
}

// SearchTasks finds tasks by text on boards the caller may read
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.SearchTasks(c.Request.Context(), actor, c.Query("q"), params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// SetStatus sets a task to the status in the path
func (h *TaskHandler) SetStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.SetStatus(c.Request.Context(), actor, task.ID, c.Param("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// NextStatus advances a task one status step
func (h *TaskHandler) NextStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.Advance(c.Request.Context(), actor, task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// SetPriority sets a task to the priority in the path
func (h *TaskHandler) SetPriority(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.SetPriority(c.Request.Context(), actor, task.ID, c.Param("priority"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// ListComments lists the comments of a task
func (h *TaskHandler) ListComments(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(c.Request.Context(), task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// AddComment adds a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), actor, task.ID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// taskFromContext returns the task loaded by RequireTaskAccess
func taskFromContext(c *gin.Context) (*models.Task, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, false
	}
	return task, true
}
