package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotSelf          = errors.New("users can only change their own account")
	ErrAvatarURLMissing = errors.New("avatar_url is required")
)

// UserService handles user profile business logic
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	audit    *AuditService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, audit *AuditService) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		audit:    audit,
	}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns users ordered by ID
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListCreatedTasks returns the tasks created by a user
func (s *UserService) ListCreatedTasks(ctx context.Context, userID uint64, offset, limit int) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByCreator(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ChangePassword replaces the password of userID. Only the user themself may do it.
func (s *UserService) ChangePassword(ctx context.Context, actorID, userID uint64, newPassword string) error {
	if actorID != userID {
		return ErrNotSelf
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.recordFor(ctx, actorID, AuditActionPassword, AuditEntityUser, user.ID, nil)
	return nil
}

// ChangeAvatar sets the avatar URL of userID. Only the user themself may do it.
func (s *UserService) ChangeAvatar(ctx context.Context, actorID, userID uint64, avatarURL string) (*models.User, error) {
	if actorID != userID {
		return nil, ErrNotSelf
	}
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return nil, ErrAvatarURLMissing
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = &avatarURL

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	s.audit.recordFor(ctx, actorID, AuditActionAvatar, AuditEntityUser, user.ID, map[string]interface{}{
		"avatar_url": avatarURL,
	})
	return user, nil
}
