// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password every fixture user gets.
const DefaultPassword = "password123"

var seq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "migrate schema")
	return db
}

// CreateUser inserts a user with the given role, a hashed DefaultPassword and
// the matching role group.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	n := seq.Add(1)
	user := &models.User{
		Email:        fmt.Sprintf("%s_%d@test.com", role, n),
		PasswordHash: hash,
		Role:         role,
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		PhoneNumber:  "0123456789",
		Address:      "Dhaka",
	}
	require.NoError(t, db.Create(user).Error, "create user")

	var group models.Group
	require.NoError(t, db.Where(models.Group{Name: role.GroupName()}).FirstOrCreate(&group).Error)
	require.NoError(t, db.Model(user).Association("Groups").Append(&group))
	return user
}

// CreateJob inserts an active job owned by employerID.
func CreateJob(t *testing.T, db *gorm.DB, employerID uint, title string) *models.Job {
	t.Helper()

	job := &models.Job{
		EmployerID:  employerID,
		Title:       title,
		CompanyName: "Acme Ltd",
		Description: "Build things",
		Location:    "Dhaka",
		IsActive:    true,
	}
	require.NoError(t, db.Create(job).Error, "create job")
	return job
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.JobCategory {
	t.Helper()

	category := &models.JobCategory{Name: name}
	require.NoError(t, db.Create(category).Error, "create category")
	return category
}

// CreateApplication inserts an application already in the given status.
func CreateApplication(t *testing.T, db *gorm.DB, jobID, applicantID uint, status models.ApplicationStatus) *models.Application {
	t.Helper()

	app := &models.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      status,
	}
	require.NoError(t, db.Create(app).Error, "create application")
	return app
}
