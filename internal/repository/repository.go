package repository

import (
	"context"

	"github.com/yukikurage/board-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)

	// List returns users ordered by ID
	List(ctx context.Context, offset, limit int) ([]models.User, error)

	// Update saves all fields of a user
	Update(ctx context.Context, user *models.User) error

	// SearchByUsername finds users whose username contains query
	SearchByUsername(ctx context.Context, query string, limit int) ([]models.User, error)
}

// BoardFilter holds filtering options for listing boards
type BoardFilter struct {
	Archived *bool
	Public   *bool
	// VisibleTo restricts results to public boards and boards owned by this user
	VisibleTo *uint64
	Offset    int
	Limit     int
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(ctx context.Context, board *models.Board) error

	// FindByID finds a board by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Board, error)

	// List retrieves boards with filtering and pagination
	List(ctx context.Context, filter BoardFilter) ([]models.Board, error)

	// Search finds boards whose title or description contains query
	Search(ctx context.Context, query string, visibleTo *uint64, limit int) ([]models.Board, error)

	// Update updates a board
	Update(ctx context.Context, board *models.Board) error

	// Delete deletes a board together with its tasks, their comments and its memberships
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member to a board
	AddMember(ctx context.Context, member *models.BoardMember) error

	// RemoveMember removes a member from a board
	RemoveMember(ctx context.Context, boardID, userID uint64) error

	// FindMember finds a specific board membership
	FindMember(ctx context.Context, boardID, userID uint64) (*models.BoardMember, error)

	// ListMembers lists all members of a board with their users preloaded
	ListMembers(ctx context.Context, boardID uint64) ([]models.BoardMember, error)
}

// TaskFilter holds filtering options for listing tasks on a board
type TaskFilter struct {
	BoardID  uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Offset   int
	Limit    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByBoard retrieves tasks of a board ordered by position
	ListByBoard(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// ListByCreator retrieves tasks created by a user
	ListByCreator(ctx context.Context, creatorID uint64, offset, limit int) ([]models.Task, error)

	// Search finds tasks whose title or description contains query
	Search(ctx context.Context, query string, visibleTo *uint64, offset, limit int) ([]models.Task, error)

	// NextSortOrder returns the position after the last task of a board
	NextSortOrder(ctx context.Context, boardID uint64) (int, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task and its comments
	Delete(ctx context.Context, id uint64) error

	// UpdateStatusBulk sets status on every existing task in ids and returns the count updated
	UpdateStatusBulk(ctx context.Context, ids []uint64, status models.TaskStatus) (int64, error)

	// DeleteBulk deletes every existing task in ids with their comments and returns the count deleted
	DeleteBulk(ctx context.Context, ids []uint64) (int64, error)

	// Reorder sets each task's position to its index in orderedIDs, skipping tasks of other boards
	Reorder(ctx context.Context, boardID uint64, orderedIDs []uint64) (int64, error)

	// AddComment appends a comment to a task
	AddComment(ctx context.Context, comment *models.TaskComment) error

	// ListComments lists comments of a task oldest first
	ListComments(ctx context.Context, taskID uint64) ([]models.TaskComment, error)
}

// BoardTaskCounts holds per-status task counts of a board
type BoardTaskCounts struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Done       int64 `json:"done"`
}

// GlobalTaskCounts holds system-wide counts
type GlobalTaskCounts struct {
	Boards     int64 `json:"boards"`
	TasksTotal int64 `json:"tasks_total"`
	Done       int64 `json:"done"`
}

// UserActivityCounts holds per-user activity counts
type UserActivityCounts struct {
	CreatedTasks  int64 `json:"created_tasks"`
	UpdatedTasks  int64 `json:"updated_tasks"`
	BoardsCreated int64 `json:"boards_created"`
}

// StatsRepository defines aggregate queries
type StatsRepository interface {
	// BoardTaskCounts counts the tasks of a board by status
	BoardTaskCounts(ctx context.Context, boardID uint64) (BoardTaskCounts, error)

	// GlobalTaskCounts counts boards and tasks across the system
	GlobalTaskCounts(ctx context.Context) (GlobalTaskCounts, error)

	// UserActivityCounts counts what a user has created
	UserActivityCounts(ctx context.Context, userID uint64) (UserActivityCounts, error)
}

// AuditLogFilter holds filtering options for audit queries; nil fields are ignored
type AuditLogFilter struct {
	ActorID    *uint64
	Action     *string
	EntityType *string
	Offset     int
	Limit      int
}

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	// Create appends an entry
	Create(ctx context.Context, entry *models.AuditLog) error

	// List returns entries matching every set filter, newest first
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, error)
}
