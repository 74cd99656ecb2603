package repository

import (
	"time"

	"github.com/brandonopened/aitaskanalysis/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists role/organization changes to a user
	Update(user *models.User) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// List returns all organizations ordered by name
	List() ([]models.Organization, error)

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)
}

// AnnotationUpdate holds the annotation fields applied to a task in one update.
type AnnotationUpdate struct {
	Potential              models.AIPotential
	CoachingTips           string
	MotivationalScore      int
	EstimatedMinutes       int
	EstimatedMinutesWithAI *int
}

// OwnerStats summarizes a single user's completed tasks.
type OwnerStats struct {
	TotalTimeSaved      int64
	TotalTasksCompleted int64
}

// TaskRepository defines the interface for task data access.
// Every lookup that takes a user ID enforces ownership in the query itself:
// a task that exists but belongs to someone else behaves as absent.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindOwned finds a task by ID scoped to its owner
	FindOwned(id, userID uint64) (*models.Task, error)

	// ListByOwner returns a user's tasks ordered by priority rank, then creation time
	ListByOwner(userID uint64) ([]models.Task, error)

	// ListPendingByOwner returns a user's tasks still awaiting analysis
	ListPendingByOwner(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// ApplyAnnotation writes one task's annotation result in a single update
	ApplyAnnotation(taskID uint64, update AnnotationUpdate) error

	// Delete removes a task
	Delete(id uint64) error

	// StatsByOwner computes completed-task statistics for one user
	StatsByOwner(userID uint64) (OwnerStats, error)
}

// CompletedTaskRow is one completed task joined with its owner and organization.
// OrganizationID and OrganizationName are nil for users without an organization.
type CompletedTaskRow struct {
	TaskID                 uint64             `json:"task_id"`
	Description            string             `json:"description"`
	Priority               models.Priority    `json:"priority"`
	AIPotential            models.AIPotential `gorm:"column:ai_potential" json:"ai_potential"`
	EstimatedMinutes       *int               `json:"estimated_minutes"`
	EstimatedMinutesWithAI *int               `json:"estimated_minutes_with_ai"`
	CreatedAt              time.Time          `json:"created_at"`
	UserID                 uint64             `json:"user_id"`
	Username               string             `json:"username"`
	Role                   models.Role        `json:"role"`
	OrganizationID         *uint64            `json:"organization_id"`
	OrganizationName       *string            `json:"organization_name"`
}

// AggregateRepository serves the admin aggregation queries.
type AggregateRepository interface {
	// CompletedTasks returns every completed task joined with owner and organization
	CompletedTasks() ([]CompletedTaskRow, error)
}
