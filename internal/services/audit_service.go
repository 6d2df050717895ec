package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/datatypes"
)

// Audit action tags
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDelete     = "delete"
	AuditActionArchive    = "archive"
	AuditActionMove       = "move"
	AuditActionStatus     = "status_change"
	AuditActionPriority   = "priority_change"
	AuditActionBulkStatus = "bulk_status"
	AuditActionBulkDelete = "bulk_delete"
	AuditActionReorder    = "reorder"
	AuditActionAddMember  = "add_member"
	AuditActionRemove     = "remove_member"
	AuditActionRegister   = "register"
	AuditActionLogin      = "login"
	AuditActionPassword   = "password_change"
	AuditActionAvatar     = "avatar_change"
)

// Audit entity tags
const (
	AuditEntityUser    = "user"
	AuditEntityBoard   = "board"
	AuditEntityTask    = "task"
	AuditEntityComment = "comment"
)

// AuditService records state-changing actions and serves the audit log.
// A nil *AuditService records nothing.
type AuditService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditLogRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// RecordInput describes one audit entry
type RecordInput struct {
	ActorID    *uint64
	Action     string
	EntityType string
	EntityID   *uint64
	Details    map[string]interface{}
}

// Record appends an entry to the audit log. Failures are logged and never
// returned, so a broken audit log cannot fail the request that triggered it.
func (s *AuditService) Record(ctx context.Context, input RecordInput) {
	if s == nil || s.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		ActorID:    input.ActorID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
	}

	if len(input.Details) > 0 {
		details, err := json.Marshal(input.Details)
		if err != nil {
			log.Printf("audit: failed to encode details for %s %s: %v", input.Action, input.EntityType, err)
		} else {
			entry.Details = datatypes.JSON(details)
		}
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s %s: %v", input.Action, input.EntityType, err)
	}
}

// Query returns audit entries matching the filter, newest first
func (s *AuditService) Query(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	entries, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}

// recordFor is a shorthand for the common case of a known actor and entity
func (s *AuditService) recordFor(ctx context.Context, actorID uint64, action, entityType string, entityID uint64, details map[string]interface{}) {
	s.Record(ctx, RecordInput{
		ActorID:    &actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
		Details:    details,
	})
}
