package dto

import (
	"time"

	"github.com/brandonopened/aitaskanalysis/internal/models"
)

// UserDTO represents a user in API responses. Password material never appears.
type UserDTO struct {
	ID             uint64      `json:"id"`
	Username       string      `json:"username"`
	Role           models.Role `json:"role"`
	OrganizationID *uint64     `json:"organization_id"`
	CreatedAt      time.Time   `json:"created_at"`
}

// LoginResponse is the login payload: the user plus where the client should go.
type LoginResponse struct {
	UserDTO
	RedirectURL string `json:"redirectUrl"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                     uint64             `json:"id"`
	UserID                 uint64             `json:"user_id"`
	Description            string             `json:"description"`
	Priority               models.Priority    `json:"priority"`
	AIPotential            models.AIPotential `json:"ai_potential"`
	EstimatedMinutes       *int               `json:"estimated_minutes"`
	EstimatedMinutesWithAI *int               `json:"estimated_minutes_with_ai"`
	CoachingTips           *string            `json:"coaching_tips"`
	MotivationalScore      *int               `json:"motivational_score"`
	Completed              bool               `json:"completed"`
	CreatedAt              time.Time          `json:"created_at"`
}

// StatsDTO is the per-user statistics payload.
type StatsDTO struct {
	TotalTimeSaved      int64 `json:"totalTimeSaved"`
	TotalTasksCompleted int64 `json:"totalTasksCompleted"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                     task.ID,
		UserID:                 task.UserID,
		Description:            task.Description,
		Priority:               task.Priority,
		AIPotential:            task.AIPotential,
		EstimatedMinutes:       task.EstimatedMinutes,
		EstimatedMinutesWithAI: task.EstimatedMinutesWithAI,
		CoachingTips:           task.CoachingTips,
		MotivationalScore:      task.MotivationalScore,
		Completed:              task.Completed,
		CreatedAt:              task.CreatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models to TaskDTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToOrganizationDTOs converts a slice of Organization models to OrganizationDTOs
func ToOrganizationDTOs(orgs []models.Organization) []OrganizationDTO {
	dtos := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToOrganizationDTO(org)
	}
	return dtos
}
