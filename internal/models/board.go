package models

import (
	"time"
)

type Board struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Public      bool      `gorm:"not null;default:false" json:"public"`
	Archived    bool      `gorm:"not null;default:false" json:"archived"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Owner   User          `gorm:"foreignKey:OwnerID" json:"-"`
	Tasks   []Task        `gorm:"foreignKey:BoardID" json:"tasks,omitempty"`
	Members []BoardMember `gorm:"foreignKey:BoardID" json:"-"`
}
