package repository

import (
	"context"

	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

type statusCount struct {
	Status models.TaskStatus
	Count  int64
}

// BoardTaskCounts counts the tasks of a board grouped by status
func (r *GormStatsRepository) BoardTaskCounts(ctx context.Context, boardID uint64) (BoardTaskCounts, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("board_id = ?", boardID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return BoardTaskCounts{}, err
	}

	var counts BoardTaskCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.TaskStatusTodo:
			counts.Todo = row.Count
		case models.TaskStatusInProgress:
			counts.InProgress = row.Count
		case models.TaskStatusDone:
			counts.Done = row.Count
		}
	}
	return counts, nil
}

// GlobalTaskCounts counts boards, tasks and completed tasks
func (r *GormStatsRepository) GlobalTaskCounts(ctx context.Context) (GlobalTaskCounts, error) {
	var counts GlobalTaskCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Board{}).Count(&counts.Boards).Error; err != nil {
		return GlobalTaskCounts{}, err
	}
	if err := db.Model(&models.Task{}).Count(&counts.TasksTotal).Error; err != nil {
		return GlobalTaskCounts{}, err
	}
	if err := db.Model(&models.Task{}).Where("status = ?", models.TaskStatusDone).Count(&counts.Done).Error; err != nil {
		return GlobalTaskCounts{}, err
	}
	return counts, nil
}

// UserActivityCounts counts tasks and boards created by a user.
// A task counts as updated once its updated_at differs from created_at.
func (r *GormStatsRepository) UserActivityCounts(ctx context.Context, userID uint64) (UserActivityCounts, error) {
	var counts UserActivityCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Task{}).Where("creator_id = ?", userID).Count(&counts.CreatedTasks).Error; err != nil {
		return UserActivityCounts{}, err
	}
	if err := db.Model(&models.Task{}).
		Where("creator_id = ? AND updated_at <> created_at", userID).
		Count(&counts.UpdatedTasks).Error; err != nil {
		return UserActivityCounts{}, err
	}
	if err := db.Model(&models.Board{}).Where("owner_id = ?", userID).Count(&counts.BoardsCreated).Error; err != nil {
		return UserActivityCounts{}, err
	}
	return counts, nil
}
