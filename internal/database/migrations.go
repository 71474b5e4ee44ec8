package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and dependency traversal
		{"tasks", "idx_tasks_organization_id", "organization_id"},
		{"tasks", "idx_tasks_end_date", "end_date"},
		{"tasks", "idx_tasks_available_date", "available_date"},

		// Assignment indexes: task fan-out and the recalculation job's
		// per-organization scan
		{"assignments", "idx_assignments_task_id", "task_id"},
		{"assignments", "idx_assignments_collaborator_id", "collaborator_id"},
		{"assignments", "idx_assignments_organization_id", "organization_id"},
		{"assignments", "idx_assignments_status", "status"},

		// Tracker lookups by assignment
		{"trackers", "idx_trackers_assignment_id", "assignment_id"},
		{"trackers", "idx_trackers_organization_id", "organization_id"},

		// Organization members indexes
		{"organization_members", "idx_org_members_organization_id", "organization_id"},
		{"organization_members", "idx_org_members_user_id", "user_id"},

		// Collaborator-to-user link
		{"collaborators", "idx_collaborators_user_id", "user_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
