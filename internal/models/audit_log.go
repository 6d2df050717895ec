package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a state-changing or security-relevant action.
// ActorID is nil for system actions.
type AuditLog struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	ActorID    *uint64        `gorm:"index" json:"user_id"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   *uint64        `json:"entity_id"`
	Details    datatypes.JSON `json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
