package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/board-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	Order        int                 `json:"order"`
	ParentTaskID *uint64             `json:"parent_task_id"`
	BoardID      uint64              `json:"board_id"`
	CreatorID    uint64              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	AuthorID  uint64    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLogDTO represents an audit entry in API responses
type AuditLogDTO struct {
	ID         uint64          `json:"id"`
	UserID     *uint64         `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uint64         `json:"entity_id"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		Order:        task.SortOrder,
		ParentTaskID: task.ParentTaskID,
		BoardID:      task.BoardID,
		CreatorID:    task.CreatorID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task)
	}
	return result
}

// ToCommentDTO converts a TaskComment model to CommentDTO
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.TaskComment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		result[i] = ToCommentDTO(comment)
	}
	return result
}

// ToAuditLogDTOs converts a slice of audit entries
func ToAuditLogDTOs(entries []models.AuditLog) []AuditLogDTO {
	result := make([]AuditLogDTO, len(entries))
	for i, entry := range entries {
		result[i] = AuditLogDTO{
			ID:         entry.ID,
			UserID:     entry.ActorID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			CreatedAt:  entry.CreatedAt,
		}
		if len(entry.Details) > 0 {
			result[i].Details = json.RawMessage(entry.Details)
		}
	}
	return result
}
