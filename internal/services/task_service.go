package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/policy"
	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTargetBoardNotFound    = errors.New("target board not found")
	ErrInvalidStatus          = errors.New("invalid status. Must be one of: todo, in_progress, done")
	ErrInvalidPriority        = errors.New("invalid priority. Must be one of: low, medium, high")
	ErrInvalidParentTask      = errors.New("parent task must be an existing top-level task on the same board")
	ErrCommentEmpty           = errors.New("comment content cannot be empty")
	ErrSearchQueryEmpty       = errors.New("search query cannot be empty")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskSuggester proposes tasks for a board from free text
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, boardTitle, text string) ([]GeneratedTask, error)
}

// TaskService handles task state and ordering
type TaskService struct {
	taskRepo  repository.TaskRepository
	boardRepo repository.BoardRepository
	suggester TaskSuggester
	audit     *AuditService
}

// NewTaskService creates a new TaskService. suggester may be nil when AI is not configured.
func NewTaskService(taskRepo repository.TaskRepository, boardRepo repository.BoardRepository, suggester TaskSuggester, audit *AuditService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
		suggester: suggester,
		audit:     audit,
	}
}

// ListTasksInput represents filters for listing the tasks of a board
type ListTasksInput struct {
	BoardID  uint64
	Status   string
	Priority string
	Offset   int
	Limit    int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  *string
	Status       string
	Priority     string
	ParentTaskID *uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// ListBoardTasks returns the tasks of a board ordered by position
func (s *TaskService) ListBoardTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		BoardID: input.BoardID,
		Offset:  input.Offset,
		Limit:   input.Limit,
	}

	if input.Status != "" {
		status, ok := models.ParseTaskStatus(input.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, ok := models.ParseTaskPriority(input.Priority)
		if !ok {
			return nil, ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	tasks, err := s.taskRepo.ListByBoard(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// GetBoardTask returns a task only if it belongs to boardID
func (s *TaskService) GetBoardTask(ctx context.Context, boardID, taskID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.BoardID != boardID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask creates a task at the end of a board
func (s *TaskService) CreateTask(ctx context.Context, actor Actor, boardID uint64, input CreateTaskInput) (*models.Task, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatusTodo
	if input.Status != "" {
		parsed, ok := models.ParseTaskStatus(input.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		parsed, ok := models.ParseTaskPriority(input.Priority)
		if !ok {
			return nil, ErrInvalidPriority
		}
		priority = parsed
	}

	if _, err := s.boardRepo.FindByID(ctx, boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	if input.ParentTaskID != nil {
		if err := s.checkParent(ctx, boardID, *input.ParentTaskID); err != nil {
			return nil, err
		}
	}

	order, err := s.taskRepo.NextSortOrder(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine task position: %w", err)
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		SortOrder:    order,
		ParentTaskID: input.ParentTaskID,
		BoardID:      boardID,
		CreatorID:    actor.UserID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionCreate, AuditEntityTask, task.ID, map[string]interface{}{
		"board_id": boardID,
		"title":    task.Title,
	})
	return task, nil
}

// checkParent allows one level of subtasks: the parent must live on boardID
// and must not itself have a parent.
func (s *TaskService) checkParent(ctx context.Context, boardID, parentID uint64) error {
	parent, err := s.taskRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidParentTask
		}
		return fmt.Errorf("failed to find parent task: %w", err)
	}
	if parent.BoardID != boardID || parent.ParentTaskID != nil {
		return ErrInvalidParentTask
	}
	return nil
}

// UpdateTask applies the non-nil fields of input to a task of boardID.
// Every field is validated before the task is changed.
func (s *TaskService) UpdateTask(ctx context.Context, actor Actor, boardID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	var (
		title    string
		status   models.TaskStatus
		priority models.TaskPriority
		err      error
	)
	if input.Title != nil {
		if title, err = normalizeTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		var ok bool
		if status, ok = models.ParseTaskStatus(*input.Status); !ok {
			return nil, ErrInvalidStatus
		}
	}
	if input.Priority != nil {
		var ok bool
		if priority, ok = models.ParseTaskPriority(*input.Priority); !ok {
			return nil, ErrInvalidPriority
		}
	}

	task, err := s.GetBoardTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if input.Title != nil {
		task.Title = title
		changes["title"] = title
	}
	if input.Description != nil {
		task.Description = input.Description
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		task.Status = status
		changes["status"] = status
	}
	if input.Priority != nil {
		task.Priority = priority
		changes["priority"] = priority
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionUpdate, AuditEntityTask, task.ID, changes)
	return task, nil
}

// DeleteTask deletes a task of boardID together with its comments
func (s *TaskService) DeleteTask(ctx context.Context, actor Actor, boardID, taskID uint64) error {
	if _, err := s.GetBoardTask(ctx, boardID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionDelete, AuditEntityTask, taskID, map[string]interface{}{
		"board_id": boardID,
	})
	return nil
}

// MoveTask reassigns a task of boardID to targetBoardID. Only the board changes:
// the task keeps its position value and the target board is not authorized.
func (s *TaskService) MoveTask(ctx context.Context, actor Actor, boardID, taskID, targetBoardID uint64) (*models.Task, error) {
	task, err := s.GetBoardTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	target, err := s.boardRepo.FindByID(ctx, targetBoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetBoardNotFound
		}
		return nil, fmt.Errorf("failed to find target board: %w", err)
	}
	task.BoardID = target.ID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionMove, AuditEntityTask, task.ID, map[string]interface{}{
		"from_board_id": boardID,
		"to_board_id":   target.ID,
	})
	return task, nil
}

// SetStatus sets a task to any valid status
func (s *TaskService) SetStatus(ctx context.Context, actor Actor, taskID uint64, rawStatus string) (*models.Task, error) {
	status, ok := models.ParseTaskStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, actor, task, status)
}

// Advance moves a task one step along todo, in_progress, done. Done stays done.
func (s *TaskService) Advance(ctx context.Context, actor Actor, taskID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, actor, task, task.Status.Next())
}

func (s *TaskService) changeStatus(ctx context.Context, actor Actor, task *models.Task, status models.TaskStatus) (*models.Task, error) {
	previous := task.Status
	task.Status = status

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionStatus, AuditEntityTask, task.ID, map[string]interface{}{
		"from": previous,
		"to":   status,
	})
	return task, nil
}

// SetPriority sets a task to any valid priority
func (s *TaskService) SetPriority(ctx context.Context, actor Actor, taskID uint64, rawPriority string) (*models.Task, error) {
	priority, ok := models.ParseTaskPriority(rawPriority)
	if !ok {
		return nil, ErrInvalidPriority
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	previous := task.Priority
	task.Priority = priority
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update priority: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionPriority, AuditEntityTask, task.ID, map[string]interface{}{
		"from": previous,
		"to":   priority,
	})
	return task, nil
}

// BulkSetStatus sets status on every existing task in taskIDs and returns how
// many were updated. Unknown IDs are skipped. The IDs are not limited to boardID.
func (s *TaskService) BulkSetStatus(ctx context.Context, actor Actor, boardID uint64, taskIDs []uint64, rawStatus string) (int64, error) {
	status, ok := models.ParseTaskStatus(rawStatus)
	if !ok {
		return 0, ErrInvalidStatus
	}
	if len(taskIDs) == 0 {
		return 0, nil
	}

	updated, err := s.taskRepo.UpdateStatusBulk(ctx, uniqueUint64(taskIDs), status)
	if err != nil {
		return 0, fmt.Errorf("failed to update tasks: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionBulkStatus, AuditEntityBoard, boardID, map[string]interface{}{
		"task_ids": taskIDs,
		"status":   status,
		"updated":  updated,
	})
	return updated, nil
}

// BulkDelete deletes every existing task in taskIDs and returns how many were
// deleted. Unknown IDs are skipped. The IDs are not limited to boardID.
func (s *TaskService) BulkDelete(ctx context.Context, actor Actor, boardID uint64, taskIDs []uint64) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}

	deleted, err := s.taskRepo.DeleteBulk(ctx, uniqueUint64(taskIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionBulkDelete, AuditEntityBoard, boardID, map[string]interface{}{
		"task_ids": taskIDs,
		"deleted":  deleted,
	})
	return deleted, nil
}

// Reorder gives each task of boardID in orderedIDs the position of its index.
// IDs of missing tasks or tasks on other boards are skipped.
func (s *TaskService) Reorder(ctx context.Context, actor Actor, boardID uint64, orderedIDs []uint64) (int64, error) {
	reordered, err := s.taskRepo.Reorder(ctx, boardID, orderedIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to reorder tasks: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionReorder, AuditEntityBoard, boardID, map[string]interface{}{
		"ordered_ids": orderedIDs,
	})
	return reordered, nil
}

// SearchTasks finds tasks on boards the actor may read
func (s *TaskService) SearchTasks(ctx context.Context, actor Actor, query string, offset, limit int) ([]models.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}

	tasks, err := s.taskRepo.Search(ctx, query, visibilityScope(actor), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

// ListComments returns the comments of a task oldest first
func (s *TaskService) ListComments(ctx context.Context, taskID uint64) ([]models.TaskComment, error) {
	comments, err := s.taskRepo.ListComments(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment appends a comment by the actor to a task
func (s *TaskService) AddComment(ctx context.Context, actor Actor, taskID uint64, content string) (*models.TaskComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{
		TaskID:   taskID,
		AuthorID: actor.UserID,
		Content:  content,
	}
	if err := s.taskRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionCreate, AuditEntityComment, comment.ID, map[string]interface{}{
		"task_id": taskID,
	})
	return comment, nil
}

// GenerateTasks asks the AI suggester for tasks that fit a board.
// Suggestions are returned to the caller and not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, board *models.Board, text string) ([]GeneratedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, board.Title, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(suggestions) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(suggestions) > constants.MaxAIGeneratedTasks {
		suggestions = suggestions[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]GeneratedTask, 0, len(suggestions))
	for _, suggestion := range suggestions {
		suggestion.Title = strings.TrimSpace(suggestion.Title)
		if suggestion.Title == "" || len(suggestion.Title) > constants.MaxTitleLength {
			continue
		}
		if _, ok := models.ParseTaskPriority(string(suggestion.Priority)); !ok {
			suggestion.Priority = models.TaskPriorityMedium
		}
		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

// visibilityScope returns the user whose boards bound a search, or nil for admins
func visibilityScope(actor Actor) *uint64 {
	if policy.SeesAllBoards(actor.Role) {
		return nil
	}
	userID := actor.UserID
	return &userID
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
