package database

import (
	"errors"
	"fmt"

	"github.com/brandonopened/aitaskanalysis/internal/config"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed bootstraps data that is never created in-app: the initial organizations
// and, when configured, an administrator account. Safe to run on every boot.
func Seed(cfg *config.Config) error {
	var orgCount int64
	if err := DB.Model(&models.Organization{}).Count(&orgCount).Error; err != nil {
		return fmt.Errorf("failed to count organizations: %w", err)
	}

	if orgCount == 0 {
		defaults := []models.Organization{
			{Name: "Engineering"},
			{Name: "Operations"},
			{Name: "Sales"},
		}
		if err := DB.Create(&defaults).Error; err != nil {
			return fmt.Errorf("failed to seed organizations: %w", err)
		}
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	err := DB.Where("username = ?", cfg.AdminUsername).First(&models.User{}).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	return nil
}
