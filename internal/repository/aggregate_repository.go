package repository

import (
	"gorm.io/gorm"
)

// GormAggregateRepository is a GORM implementation of AggregateRepository
type GormAggregateRepository struct {
	db *gorm.DB
}

// NewAggregateRepository creates a new AggregateRepository
func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &GormAggregateRepository{db: db}
}

// CompletedTasks returns every completed task joined with its owner and the
// owner's organization. The organization join is LEFT so users without one
// still appear (nil organization columns).
func (r *GormAggregateRepository) CompletedTasks() ([]CompletedTaskRow, error) {
	var rows []CompletedTaskRow

	err := r.db.Raw(`
		SELECT tasks.id AS task_id,
		       tasks.description,
		       tasks.priority,
		       tasks.ai_potential,
		       tasks.estimated_minutes,
		       tasks.estimated_minutes_with_ai,
		       tasks.created_at,
		       users.id AS user_id,
		       users.username,
		       users.role,
		       organizations.id AS organization_id,
		       organizations.name AS organization_name
		FROM tasks
		JOIN users ON users.id = tasks.user_id
		LEFT JOIN organizations ON organizations.id = users.organization_id
		WHERE tasks.completed = ?
		ORDER BY users.username ASC, tasks.created_at ASC
	`, true).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
