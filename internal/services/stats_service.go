package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/gorm"
)

// StatsService serves system-wide and per-user counts
type StatsService struct {
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository, userRepo repository.UserRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

// GlobalTaskStats counts boards, tasks and completed tasks
func (s *StatsService) GlobalTaskStats(ctx context.Context) (repository.GlobalTaskCounts, error) {
	counts, err := s.statsRepo.GlobalTaskCounts(ctx)
	if err != nil {
		return repository.GlobalTaskCounts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	return counts, nil
}

// UserActivity counts what a user has created and updated
func (s *StatsService) UserActivity(ctx context.Context, userID uint64) (repository.UserActivityCounts, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.UserActivityCounts{}, ErrUserNotFound
		}
		return repository.UserActivityCounts{}, fmt.Errorf("failed to find user: %w", err)
	}

	counts, err := s.statsRepo.UserActivityCounts(ctx, userID)
	if err != nil {
		return repository.UserActivityCounts{}, fmt.Errorf("failed to count user activity: %w", err)
	}
	return counts, nil
}
