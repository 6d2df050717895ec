package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the valid statuses in workflow order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// ParseTaskStatus validates a raw status value.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), true
	default:
		return "", false
	}
}

// Next returns the status that follows s in the workflow.
// done is terminal and advances to itself; an unknown status restarts at todo.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskStatusTodo:
		return TaskStatusInProgress
	case TaskStatusInProgress, TaskStatusDone:
		return TaskStatusDone
	default:
		return TaskStatusTodo
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// ParseTaskPriority validates a raw priority value.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), true
	default:
		return "", false
	}
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  *string      `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	SortOrder    int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	ParentTaskID *uint64      `json:"parent_task_id"`
	BoardID      uint64       `gorm:"not null;index" json:"board_id"`
	CreatorID    uint64       `gorm:"not null;index" json:"creator_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Board    Board         `gorm:"foreignKey:BoardID" json:"-"`
	Creator  User          `gorm:"foreignKey:CreatorID" json:"-"`
	Comments []TaskComment `gorm:"foreignKey:TaskID" json:"-"`
}
