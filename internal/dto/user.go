package dto

import (
	"time"

	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
)

// TokenResponse is returned by every successful registration or login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	AvatarURL *string     `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
}

// PublicUserDTO is the unauthenticated view of a user
type PublicUserDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// MemberDTO represents a board member
type MemberDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AvatarResponse carries a user's avatar URL
type AvatarResponse struct {
	UserID    uint64  `json:"user_id"`
	AvatarURL *string `json:"avatar_url"`
}

// NewTokenResponse wraps an access token
func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenType,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, user := range users {
		result[i] = ToUserDTO(user)
	}
	return result
}

// ToPublicUserDTOs converts a slice of users to their public view
func ToPublicUserDTOs(users []models.User) []PublicUserDTO {
	result := make([]PublicUserDTO, len(users))
	for i, user := range users {
		result[i] = PublicUserDTO{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
		}
	}
	return result
}

// ToMemberDTOs converts board memberships with preloaded users
func ToMemberDTOs(members []models.BoardMember) []MemberDTO {
	result := make([]MemberDTO, len(members))
	for i, member := range members {
		result[i] = MemberDTO{
			ID:       member.User.ID,
			Username: member.User.Username,
			Email:    member.User.Email,
		}
	}
	return result
}
