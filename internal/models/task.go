package models

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is one of the closed set of priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// AIPotential is the categorical judgment of how automatable a task is.
// Tasks start at pending and transition exactly once per analysis run.
type AIPotential string

const (
	AIPotentialPending  AIPotential = "pending"
	AIPotentialNone     AIPotential = "none"
	AIPotentialSome     AIPotential = "some"
	AIPotentialAdvanced AIPotential = "advanced"
)

// Valid reports whether the value is an analysis result (pending excluded).
func (p AIPotential) Valid() bool {
	return p == AIPotentialNone || p == AIPotentialSome || p == AIPotentialAdvanced
}

type Task struct {
	ID                     uint64      `gorm:"primarykey" json:"id"`
	UserID                 uint64      `gorm:"not null;index" json:"user_id"`
	Description            string      `gorm:"type:text;not null" json:"description"`
	Priority               Priority    `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	AIPotential            AIPotential `gorm:"column:ai_potential;type:varchar(20);not null;default:'pending'" json:"ai_potential"`
	EstimatedMinutes       *int        `json:"estimated_minutes"`
	EstimatedMinutesWithAI *int        `json:"estimated_minutes_with_ai"`
	CoachingTips           *string     `gorm:"type:text" json:"coaching_tips"`
	MotivationalScore      *int        `json:"motivational_score"`
	Completed              bool        `gorm:"not null;default:false" json:"completed"`
	CreatedAt              time.Time   `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
