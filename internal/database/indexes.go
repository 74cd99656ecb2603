package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds secondary indexes used by task listing and the admin aggregation.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_completed", "completed"},
		{"tasks", "idx_tasks_ai_potential", "ai_potential"},
		{"tasks", "idx_tasks_created_at", "created_at"},
		{"users", "idx_users_organization_id", "organization_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
