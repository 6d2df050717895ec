package models

import (
	"time"
)

// Role is the global role of a user. The set is closed: admin, user, guest.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGuest:
		return Role(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AvatarURL    *string   `gorm:"type:varchar(1024)" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Boards      []Board       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []BoardMember `gorm:"foreignKey:UserID" json:"-"`
}
