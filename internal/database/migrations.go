package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that are not expressible as struct tags.
// It is safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board task listing ordered by position
		{"tasks", "idx_tasks_board_sort_order", "board_id, sort_order"},
		// Board stats and status filters
		{"tasks", "idx_tasks_board_status", "board_id, status"},
		{"tasks", "idx_tasks_board_priority", "board_id, priority"},

		// Board visibility listing
		{"boards", "idx_boards_public_archived", "public, archived"},

		// Audit log queries are newest-first per actor
		{"audit_logs", "idx_audit_logs_actor_created", "actor_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs schema migrations followed by index creation.
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
