package services

import (
	"context"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testutil"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_PerRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.DashboardService

	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)
	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)

	popular := testutil.CreateJob(t, env.db, employer.ID, "Popular")
	quiet := testutil.CreateJob(t, env.db, employer.ID, "Quiet")
	fresh := testutil.CreateJob(t, env.db, employer.ID, "Fresh")
	require.NoError(t, env.db.Model(popular).Updates(map[string]interface{}{"views_count": 40, "is_featured": true}).Error)
	require.NoError(t, env.db.Model(quiet).Update("views_count", 3).Error)

	testutil.CreateApplication(t, env.db, popular.ID, seeker.ID, models.ApplicationStatusInterviewed)
	testutil.CreateApplication(t, env.db, quiet.ID, seeker.ID, models.ApplicationStatusOffered)

	t.Run("admin", func(t *testing.T) {
		out, err := svc.Get(ctx, env.db, callerOf(admin))
		require.NoError(t, err)
		board, ok := out.(*dto.AdminDashboard)
		require.True(t, ok)
		assert.Equal(t, int64(3), board.TotalUsers)
		assert.Equal(t, int64(3), board.TotalJobs)
		assert.Equal(t, int64(2), board.TotalApplications)
		assert.Len(t, board.RecentJobs, 3)
		assert.Len(t, board.RecentApplications, 2)
	})

	t.Run("employer", func(t *testing.T) {
		out, err := svc.Get(ctx, env.db, callerOf(employer))
		require.NoError(t, err)
		board := out.(*dto.EmployerDashboard)
		assert.Equal(t, int64(3), board.JobsPosted)
		assert.Equal(t, int64(1), board.FeaturedJobs)
		assert.Equal(t, int64(2), board.TotalApplications)
		require.Len(t, board.TopJobs, 3)
		assert.Equal(t, popular.ID, board.TopJobs[0].ID)
		assert.Equal(t, int64(40), board.TopJobs[0].ViewsCount)
		assert.Equal(t, int64(1), board.TopJobs[0].ApplicationsCount)
	})

	t.Run("seeker", func(t *testing.T) {
		out, err := svc.Get(ctx, env.db, callerOf(seeker))
		require.NoError(t, err)
		board := out.(*dto.SeekerDashboard)
		assert.Equal(t, int64(2), board.ApplicationsCount)
		assert.Equal(t, int64(1), board.Interviews)
		assert.Equal(t, int64(1), board.Offers)
		assert.Len(t, board.RecentlyApplied, 2)
		require.Len(t, board.RecommendedJobs, 1)
		assert.Equal(t, fresh.ID, board.RecommendedJobs[0].ID)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Get(ctx, env.db, dto.Caller{ID: 1, Role: "ghost"})
		assertCode(t, err, apperrors.CodeForbidden)
	})
}

func TestDashboard_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := &dashboardService{
		dashboardRepo: repositories.NewDashboardRepository(),
		now:           func() time.Time { return now },
	}

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	other := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)

	recent := testutil.CreateJob(t, env.db, employer.ID, "Recent")
	old := testutil.CreateJob(t, env.db, employer.ID, "Old")
	foreign := testutil.CreateJob(t, env.db, other.ID, "Foreign")
	require.NoError(t, env.db.Model(recent).UpdateColumn("created_at", now.AddDate(0, 0, -2)).Error)
	require.NoError(t, env.db.Model(old).UpdateColumn("created_at", now.AddDate(0, 0, -30)).Error)
	require.NoError(t, env.db.Model(foreign).UpdateColumn("created_at", now.AddDate(0, 0, -1)).Error)

	app := testutil.CreateApplication(t, env.db, recent.ID, seeker.ID, models.ApplicationStatusPending)
	require.NoError(t, env.db.Model(app).UpdateColumn("applied_at", now.AddDate(0, 0, -1)).Error)

	stats, err := svc.Stats(ctx, env.db, callerOf(employer), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Days)
	assert.Equal(t, int64(1), stats.JobsCreated)
	assert.Equal(t, int64(1), stats.ApplicationsCreated)

	days := 60
	stats, err = svc.Stats(ctx, env.db, callerOf(employer), &days)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.JobsCreated)

	stats, err = svc.Stats(ctx, env.db, callerOf(other), &days)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.JobsCreated)
	assert.Zero(t, stats.ApplicationsCreated)

	stats, err = svc.Stats(ctx, env.db, callerOf(seeker), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.JobsCreated)
	assert.Equal(t, int64(1), stats.ApplicationsCreated)

	for _, bad := range []int{0, 366} {
		_, err = svc.Stats(ctx, env.db, callerOf(seeker), &bad)
		assertCode(t, err, apperrors.CodeValidationFailed)
	}
}
