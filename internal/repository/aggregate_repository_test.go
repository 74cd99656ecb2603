package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestAggregateRepository_CompletedTasks(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAggregateRepository(db)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orgID := uint64(3)
	orgName := "Engineering"
	manual := 60
	ai := 20

	columns := []string{
		"task_id", "description", "priority", "ai_potential",
		"estimated_minutes", "estimated_minutes_with_ai", "created_at",
		"user_id", "username", "role", "organization_id", "organization_name",
	}
	rows := sqlmock.NewRows(columns).
		AddRow(uint64(1), "write report", "medium", "some", manual, ai, createdAt,
			uint64(10), "alice", "user", orgID, orgName).
		AddRow(uint64(2), "file expenses", "low", "none", nil, nil, createdAt,
			uint64(11), "bob", "admin", nil, nil)

	mock.ExpectQuery(`SELECT tasks\.id AS task_id`).
		WithArgs(true).
		WillReturnRows(rows)

	result, err := repo.CompletedTasks()
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.Equal(t, uint64(1), result[0].TaskID)
	require.Equal(t, "alice", result[0].Username)
	require.Equal(t, models.AIPotentialSome, result[0].AIPotential)
	require.NotNil(t, result[0].EstimatedMinutes)
	require.Equal(t, 60, *result[0].EstimatedMinutes)
	require.NotNil(t, result[0].OrganizationName)
	require.Equal(t, "Engineering", *result[0].OrganizationName)

	// Users without an organization come back with nil org columns.
	require.Equal(t, "bob", result[1].Username)
	require.Equal(t, models.RoleAdmin, result[1].Role)
	require.Nil(t, result[1].OrganizationID)
	require.Nil(t, result[1].OrganizationName)
	require.Nil(t, result[1].EstimatedMinutes)

	require.NoError(t, mock.ExpectationsWereMet())
}
