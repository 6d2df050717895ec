package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
)

// SearchService runs the global search across boards, tasks and users
type SearchService struct {
	boardRepo repository.BoardRepository
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(boardRepo repository.BoardRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *SearchService {
	return &SearchService{
		boardRepo: boardRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
	}
}

// SearchResult groups matches by kind
type SearchResult struct {
	Boards []models.Board
	Tasks  []models.Task
	Users  []models.User
}

// Search matches query case-insensitively. Boards and tasks are limited to
// boards the actor may read.
func (s *SearchService) Search(ctx context.Context, actor Actor, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}
	scope := visibilityScope(actor)

	boards, err := s.boardRepo.Search(ctx, query, scope, constants.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search boards: %w", err)
	}

	tasks, err := s.taskRepo.Search(ctx, query, scope, 0, constants.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	users, err := s.userRepo.SearchByUsername(ctx, query, constants.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return &SearchResult{
		Boards: boards,
		Tasks:  tasks,
		Users:  users,
	}, nil
}
