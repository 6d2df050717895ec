package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminExists          = errors.New("admin already exists")
	ErrUsernameTaken        = errors.New("username already registered")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidUsername      = errors.New("username must be between 3 and 50 characters")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidRole          = errors.New("role cannot be self-assigned")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	audit    *AuditService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		audit:    audit,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is a freshly authenticated user and their bearer token.
type AuthResult struct {
	User        *models.User
	AccessToken string
}

// RegisterAdmin creates the first user of the system as an admin.
// It fails with ErrAdminExists once any user exists.
func (s *AuthService) RegisterAdmin(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	return s.register(ctx, input, models.RoleAdmin)
}

// Register creates a user with a self-chosen role. Only user and guest may be chosen.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, role models.Role) (*AuthResult, error) {
	if role != models.RoleUser && role != models.RoleGuest {
		return nil, ErrInvalidRole
	}
	return s.register(ctx, input, role)
}

func (s *AuthService) register(ctx context.Context, input RegisterInput, role models.Role) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
		return nil, ErrInvalidUsername
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.recordFor(ctx, user.ID, AuditActionRegister, AuditEntityUser, user.ID, map[string]interface{}{
		"role": user.Role,
	})

	return s.issueFor(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a token for the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.audit.recordFor(ctx, user.ID, AuditActionLogin, AuditEntityUser, user.ID, nil)

	return s.issueFor(user)
}

func (s *AuthService) issueFor(user *models.User) (*AuthResult, error) {
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}
