package repository

import (
	"context"

	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by ID with optional preloading
func (r *GormBoardRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Board, error) {
	var board models.Board
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "Tasks" {
			query = query.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order ASC, id ASC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// List retrieves boards with filtering and pagination
func (r *GormBoardRepository) List(ctx context.Context, filter BoardFilter) ([]models.Board, error) {
	var boards []models.Board
	query := r.db.WithContext(ctx).Model(&models.Board{})

	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}
	if filter.Public != nil {
		query = query.Where("public = ?", *filter.Public)
	}
	if filter.VisibleTo != nil {
		query = query.Where("public = ? OR owner_id = ?", true, *filter.VisibleTo)
	}
	query = query.Scopes(database.Paginate(filter.Offset, filter.Limit))

	if err := query.Order("id").Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Search finds boards whose title or description contains query
func (r *GormBoardRepository) Search(ctx context.Context, query string, visibleTo *uint64, limit int) ([]models.Board, error) {
	var boards []models.Board
	pattern := likePattern(query)

	q := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	if visibleTo != nil {
		q = q.Where("public = ? OR owner_id = ?", true, *visibleTo)
	}

	if err := q.Order("id").Limit(limit).Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete deletes a board and all related data in a transaction
func (r *GormBoardRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boardTasks := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", id)

		// Delete comments of the board's tasks
		if err := tx.Where("task_id IN (?)", boardTasks).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		// Delete all tasks on the board
		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Delete all members
		if err := tx.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Board{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// AddMember adds a member to a board
func (r *GormBoardRepository) AddMember(ctx context.Context, member *models.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember removes a member from a board
func (r *GormBoardRepository) RemoveMember(ctx context.Context, boardID, userID uint64) error {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&models.BoardMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMember finds a specific board membership
func (r *GormBoardRepository) FindMember(ctx context.Context, boardID, userID uint64) (*models.BoardMember, error) {
	var member models.BoardMember
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a board
func (r *GormBoardRepository) ListMembers(ctx context.Context, boardID uint64) ([]models.BoardMember, error) {
	var members []models.BoardMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("board_id = ?", boardID).
		Order("user_id").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
