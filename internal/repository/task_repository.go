package repository

import (
	"context"
	"database/sql"

	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByBoard retrieves tasks of a board with filtering and pagination
func (r *GormTaskRepository) ListByBoard(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.WithContext(ctx).Where("board_id = ?", filter.BoardID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	query = query.Scopes(database.Paginate(filter.Offset, filter.Limit))

	if err := query.Order("sort_order ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByCreator retrieves tasks created by a user
func (r *GormTaskRepository) ListByCreator(ctx context.Context, creatorID uint64, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("id").
		Scopes(database.Paginate(offset, limit)).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Search finds tasks whose title or description contains query
func (r *GormTaskRepository) Search(ctx context.Context, query string, visibleTo *uint64, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	pattern := likePattern(query)

	q := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	if visibleTo != nil {
		q = q.Joins("JOIN boards ON boards.id = tasks.board_id").
			Where("boards.public = ? OR boards.owner_id = ?", true, *visibleTo)
	}

	if err := q.Order("tasks.id").Scopes(database.Paginate(offset, limit)).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// NextSortOrder returns the position after the last task of a board
func (r *GormTaskRepository) NextSortOrder(ctx context.Context, boardID uint64) (int, error) {
	var maxOrder sql.NullInt64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("board_id = ?", boardID).
		Select("MAX(sort_order)").
		Row().
		Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete deletes a task and its comments in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateStatusBulk sets status on every existing task in ids
func (r *GormTaskRepository) UpdateStatusBulk(ctx context.Context, ids []uint64, status models.TaskStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// DeleteBulk deletes every existing task in ids together with their comments
func (r *GormTaskRepository) DeleteBulk(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Reorder sets each task's position to its index in orderedIDs.
// IDs that do not exist or belong to another board are skipped.
func (r *GormTaskRepository) Reorder(ctx context.Context, boardID uint64, orderedIDs []uint64) (int64, error) {
	var reordered int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			result := tx.Model(&models.Task{}).
				Where("id = ? AND board_id = ?", id, boardID).
				Update("sort_order", index)
			if result.Error != nil {
				return result.Error
			}
			reordered += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reordered, nil
}

// AddComment appends a comment to a task
func (r *GormTaskRepository) AddComment(ctx context.Context, comment *models.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments lists comments of a task oldest first
func (r *GormTaskRepository) ListComments(ctx context.Context, taskID uint64) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
