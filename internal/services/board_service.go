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
	ErrBoardNotFound     = errors.New("board not found")
	ErrAlreadyMember     = errors.New("user is already a member of this board")
	ErrNotBoardMember    = errors.New("user is not a member of this board")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title is too long")
	ErrBoardIsPrivate    = errors.New("this board is private. Only public boards can be accessed without authentication")
	ErrGuestCannotCreate = errors.New("guests cannot create boards")
)

// PermissionError carries the reason an access check denied an action.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint64
	Role   models.Role
}

// Authorize checks actor against board for action and returns a
// *PermissionError on denial.
func Authorize(board *models.Board, actor Actor, action policy.Action) error {
	decision := policy.Authorize(board, actor.UserID, actor.Role, action)
	if !decision.Allowed {
		return &PermissionError{Reason: decision.Reason}
	}
	return nil
}

// BoardService handles board business logic
type BoardService struct {
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	audit     *AuditService
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo repository.BoardRepository, userRepo repository.UserRepository, statsRepo repository.StatsRepository, audit *AuditService) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		statsRepo: statsRepo,
		audit:     audit,
	}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Title       string
	Description *string
	Public      bool
}

// UpdateBoardInput represents input for updating a board. Nil fields are left unchanged.
type UpdateBoardInput struct {
	Title       *string
	Description *string
	Public      *bool
	Archived    *bool
}

// GetBoard returns a board with its tasks ordered by position
func (s *BoardService) GetBoard(ctx context.Context, boardID uint64) (*models.Board, error) {
	return s.findBoard(ctx, boardID, "Tasks")
}

// FindBoard returns a board without relations
func (s *BoardService) FindBoard(ctx context.Context, boardID uint64) (*models.Board, error) {
	return s.findBoard(ctx, boardID)
}

// GetPublicBoard returns a public board with its tasks for anonymous callers
func (s *BoardService) GetPublicBoard(ctx context.Context, boardID uint64) (*models.Board, error) {
	board, err := s.findBoard(ctx, boardID, "Tasks")
	if err != nil {
		return nil, err
	}
	if !board.Public {
		return nil, ErrBoardIsPrivate
	}
	return board, nil
}

// ListPublicBoards returns non-archived public boards
func (s *BoardService) ListPublicBoards(ctx context.Context, offset, limit int) ([]models.Board, error) {
	public, archived := true, false
	boards, err := s.boardRepo.List(ctx, repository.BoardFilter{
		Public:   &public,
		Archived: &archived,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list public boards: %w", err)
	}
	return boards, nil
}

// ListBoards returns the boards the actor may read, filtered by archived state
func (s *BoardService) ListBoards(ctx context.Context, actor Actor, archived bool, offset, limit int) ([]models.Board, error) {
	filter := repository.BoardFilter{
		Archived: &archived,
		Offset:   offset,
		Limit:    limit,
	}
	if !policy.SeesAllBoards(actor.Role) {
		filter.VisibleTo = &actor.UserID
	}

	boards, err := s.boardRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// CreateBoard creates a board owned by the actor
func (s *BoardService) CreateBoard(ctx context.Context, actor Actor, input CreateBoardInput) (*models.Board, error) {
	if !policy.CanCreateBoard(actor.Role) {
		return nil, ErrGuestCannotCreate
	}

	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	board := &models.Board{
		Title:       title,
		Description: input.Description,
		Public:      input.Public,
		OwnerID:     actor.UserID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionCreate, AuditEntityBoard, board.ID, map[string]interface{}{
		"title":  board.Title,
		"public": board.Public,
	})
	return board, nil
}

// UpdateBoard applies the non-nil fields of input to a board
func (s *BoardService) UpdateBoard(ctx context.Context, actor Actor, boardID uint64, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if input.Title != nil {
		title, err := normalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		board.Title = title
		changes["title"] = title
	}
	if input.Description != nil {
		board.Description = input.Description
		changes["description"] = *input.Description
	}
	if input.Public != nil {
		board.Public = *input.Public
		changes["public"] = *input.Public
	}
	if input.Archived != nil {
		board.Archived = *input.Archived
		changes["archived"] = *input.Archived
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionUpdate, AuditEntityBoard, board.ID, changes)
	return board, nil
}

// ArchiveBoard marks a board archived
func (s *BoardService) ArchiveBoard(ctx context.Context, actor Actor, boardID uint64) (*models.Board, error) {
	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board.Archived = true
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to archive board: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionArchive, AuditEntityBoard, board.ID, nil)
	return board, nil
}

// DeleteBoard deletes a board with its tasks, comments and memberships
func (s *BoardService) DeleteBoard(ctx context.Context, actor Actor, boardID uint64) error {
	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionDelete, AuditEntityBoard, boardID, nil)
	return nil
}

// BoardStats counts the tasks of a board by status
func (s *BoardService) BoardStats(ctx context.Context, boardID uint64) (repository.BoardTaskCounts, error) {
	if _, err := s.findBoard(ctx, boardID); err != nil {
		return repository.BoardTaskCounts{}, err
	}

	counts, err := s.statsRepo.BoardTaskCounts(ctx, boardID)
	if err != nil {
		return repository.BoardTaskCounts{}, fmt.Errorf("failed to count board tasks: %w", err)
	}
	return counts, nil
}

// ListMembers returns the members of a board
func (s *BoardService) ListMembers(ctx context.Context, boardID uint64) ([]models.BoardMember, error) {
	members, err := s.boardRepo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds userID to a board
func (s *BoardService) AddMember(ctx context.Context, actor Actor, boardID, userID uint64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.boardRepo.FindMember(ctx, boardID, userID); err == nil {
		return ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.BoardMember{BoardID: boardID, UserID: userID}
	if err := s.boardRepo.AddMember(ctx, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionAddMember, AuditEntityBoard, boardID, map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// RemoveMember removes userID from a board
func (s *BoardService) RemoveMember(ctx context.Context, actor Actor, boardID, userID uint64) error {
	if err := s.boardRepo.RemoveMember(ctx, boardID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotBoardMember
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.audit.recordFor(ctx, actor.UserID, AuditActionRemove, AuditEntityBoard, boardID, map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *BoardService) findBoard(ctx context.Context, boardID uint64, preload ...string) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

// normalizeTitle trims a board or task title and checks its length
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
