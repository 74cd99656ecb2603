package services

import (
	"errors"
	"fmt"

	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/brandonopened/aitaskanalysis/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAdminRequired       = errors.New("administrator role required")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUnknownOrganization = errors.New("unknown organization")
)

// noOrganizationName labels stats rows for users without an organization.
const noOrganizationName = "No Organization"

// AdminService handles role-scoped administration: organization listing, user
// reassignment, and cross-organization aggregation. Every operation requires
// the acting user to hold the admin role.
type AdminService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	aggRepo  repository.AggregateRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, aggRepo repository.AggregateRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		aggRepo:  aggRepo,
	}
}

// ListOrganizations returns all organizations ordered by name.
func (s *AdminService) ListOrganizations(actor *models.User) ([]models.Organization, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	orgs, err := s.orgRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// UpdateUserInput represents a role/organization reassignment.
type UpdateUserInput struct {
	UserID         uint64
	Role           models.Role
	OrganizationID *uint64
}

// UpdateUser reassigns a user's role and organization. A non-nil organization
// id must reference an existing organization.
func (s *AdminService) UpdateUser(actor *models.User, input UpdateUserInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if input.OrganizationID != nil {
		if _, err := s.orgRepo.FindByID(*input.OrganizationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownOrganization
			}
			return nil, fmt.Errorf("failed to verify organization: %w", err)
		}
	}

	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Role = input.Role
	user.OrganizationID = input.OrganizationID

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UserTaskStats is the per-user slice of the global aggregation, keyed by
// username in GlobalStats. Store-level username uniqueness keeps that keying
// from merging distinct users.
type UserTaskStats struct {
	UserID           uint64      `json:"user_id"`
	CompletedTasks   int64       `json:"completed_tasks"`
	TimeSaved        int64       `json:"time_saved"`
	OrganizationID   *uint64     `json:"organization_id"`
	OrganizationName string      `json:"organization_name"`
	Role             models.Role `json:"role"`
}

// GlobalStats aggregates completed tasks across all users and organizations.
type GlobalStats struct {
	TotalTasksCompleted int64                        `json:"total_tasks_completed"`
	TotalTimeSaved      int64                        `json:"total_time_saved"`
	UserBreakdown       map[string]*UserTaskStats    `json:"user_breakdown"`
	PotentialCounts     map[models.AIPotential]int64 `json:"potential_counts"`
}

// GlobalStats joins completed tasks with owners and organizations and computes
// the aggregate view. Time saved follows the both-fields-present rule; the
// potential buckets exclude tasks still pending.
func (s *AdminService) GlobalStats(actor *models.User) (*GlobalStats, []repository.CompletedTaskRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, nil, err
	}

	rows, err := s.aggRepo.CompletedTasks()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load completed tasks: %w", err)
	}

	stats := &GlobalStats{
		UserBreakdown: make(map[string]*UserTaskStats),
		PotentialCounts: map[models.AIPotential]int64{
			models.AIPotentialNone:     0,
			models.AIPotentialSome:     0,
			models.AIPotentialAdvanced: 0,
		},
	}

	for _, row := range rows {
		stats.TotalTasksCompleted++

		var saved int64
		if row.EstimatedMinutes != nil && row.EstimatedMinutesWithAI != nil {
			saved = int64(*row.EstimatedMinutes - *row.EstimatedMinutesWithAI)
		}
		stats.TotalTimeSaved += saved

		entry, ok := stats.UserBreakdown[row.Username]
		if !ok {
			orgName := noOrganizationName
			if row.OrganizationName != nil {
				orgName = *row.OrganizationName
			}
			entry = &UserTaskStats{
				UserID:           row.UserID,
				OrganizationID:   row.OrganizationID,
				OrganizationName: orgName,
				Role:             row.Role,
			}
			stats.UserBreakdown[row.Username] = entry
		}
		entry.CompletedTasks++
		entry.TimeSaved += saved

		if row.AIPotential.Valid() {
			stats.PotentialCounts[row.AIPotential]++
		}
	}

	return stats, rows, nil
}

func requireAdmin(actor *models.User) error {
	if actor == nil || actor.Role != models.RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}
