package services

import (
	"context"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testutil"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestJobService_CreateAndModerate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.JobService

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)
	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)

	_, err := svc.Create(ctx, env.db, callerOf(seeker), &dto.CreateJobRequest{Title: "Nope", Description: "x"})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = svc.Create(ctx, env.db, callerOf(employer), &dto.CreateJobRequest{Title: "Go dev", Description: "x", CategoryID: ptr(uint(404))})
	assertCode(t, err, apperrors.CodeNotFound)

	job, err := svc.Create(ctx, env.db, callerOf(employer), &dto.CreateJobRequest{
		Title:       "Go dev",
		Description: "Write Go",
		IsFeatured:  ptr(true),
		IsActive:    ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, employer.ID, job.EmployerID)
	assert.True(t, job.IsActive, "employers cannot deactivate on create")
	assert.False(t, job.IsFeatured, "employers cannot self-feature")

	t.Run("employer edit ignores moderation fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, env.db, callerOf(employer), job.ID, &dto.UpdateJobRequest{
			Title:      ptr("Senior Go dev"),
			IsFeatured: ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Senior Go dev", updated.Title)
		assert.False(t, updated.IsFeatured)
	})

	t.Run("admin can moderate", func(t *testing.T) {
		updated, err := svc.Update(ctx, env.db, callerOf(admin), job.ID, &dto.UpdateJobRequest{IsFeatured: ptr(true)})
		require.NoError(t, err)
		assert.True(t, updated.IsFeatured)
	})

	t.Run("other employer is rejected", func(t *testing.T) {
		other := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
		_, err := svc.Update(ctx, env.db, callerOf(other), job.ID, &dto.UpdateJobRequest{Title: ptr("Mine")})
		assertCode(t, err, apperrors.CodeForbidden)
		assertCode(t, svc.Delete(ctx, env.db, callerOf(other), job.ID), apperrors.CodeForbidden)
	})

	t.Run("delete cascades", func(t *testing.T) {
		testutil.CreateApplication(t, env.db, job.ID, seeker.ID, models.ApplicationStatusPending)
		require.NoError(t, svc.Delete(ctx, env.db, callerOf(employer), job.ID))

		_, err := svc.Get(ctx, env.db, callerOf(seeker), job.ID)
		assertCode(t, err, apperrors.CodeNotFound)

		var count int64
		require.NoError(t, env.db.Model(&models.Application{}).Where("job_id = ?", job.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestJobService_ListAndFeatured(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.JobService

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	category := testutil.CreateCategory(t, env.db, "Engineering")

	backend := testutil.CreateJob(t, env.db, employer.ID, "Backend Engineer")
	frontend := testutil.CreateJob(t, env.db, employer.ID, "Frontend Engineer")
	sales := testutil.CreateJob(t, env.db, employer.ID, "Sales Lead")
	require.NoError(t, env.db.Model(backend).Updates(map[string]interface{}{"category_id": category.ID, "salary": 900, "is_featured": true}).Error)
	require.NoError(t, env.db.Model(frontend).Updates(map[string]interface{}{"salary": 400, "is_featured": true, "is_active": false}).Error)
	require.NoError(t, env.db.Model(sales).Update("salary", 100).Error)

	all, err := svc.List(ctx, env.db, &dto.JobListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	search, err := svc.List(ctx, env.db, &dto.JobListQuery{Search: "ENGINEER"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), search.Total)

	byCategory, err := svc.List(ctx, env.db, &dto.JobListQuery{CategoryID: &category.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byCategory.Jobs, 1)
	assert.Equal(t, "Engineering", byCategory.Jobs[0].CategoryName)

	salary, err := svc.List(ctx, env.db, &dto.JobListQuery{SalaryGT: ptr(150.0), SalaryLT: ptr(800.0)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, salary.Jobs, 1)
	assert.Equal(t, frontend.ID, salary.Jobs[0].ID)

	ordered, err := svc.List(ctx, env.db, &dto.JobListQuery{Ordering: "title", NoPagination: true}, 1, 1)
	require.NoError(t, err)
	require.Len(t, ordered.Jobs, 3)
	assert.Equal(t, "Backend Engineer", ordered.Jobs[0].Title)
	assert.Zero(t, ordered.Page)

	paged, err := svc.List(ctx, env.db, &dto.JobListQuery{Ordering: "title"}, 2, 1)
	require.NoError(t, err)
	require.Len(t, paged.Jobs, 1)
	assert.Equal(t, "Frontend Engineer", paged.Jobs[0].Title)
	assert.Equal(t, int64(3), paged.Total)

	featured, err := svc.Featured(ctx, env.db, 1, 10)
	require.NoError(t, err)
	require.Len(t, featured.Jobs, 1)
	assert.Equal(t, backend.ID, featured.Jobs[0].ID)
}

func TestJobService_GetCountsViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.JobService

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	job := testutil.CreateJob(t, env.db, employer.ID, "Analyst")

	resp, err := svc.Get(ctx, env.db, dto.Caller{}, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ViewsCount)

	resp, err = svc.Get(ctx, env.db, callerOf(employer), job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ViewsCount, "owner views are not counted")
}

func TestJobService_AppliedProbes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.JobService

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)
	job := testutil.CreateJob(t, env.db, employer.ID, "Designer")

	applied, err := svc.HasApplied(ctx, env.db, callerOf(seeker), job.ID)
	require.NoError(t, err)
	assert.False(t, applied.HasApplied)

	_, err = svc.HasApplied(ctx, env.db, callerOf(employer), job.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	app := testutil.CreateApplication(t, env.db, job.ID, seeker.ID, models.ApplicationStatusOffered)

	applied, err = svc.HasApplied(ctx, env.db, callerOf(seeker), job.ID)
	require.NoError(t, err)
	assert.True(t, applied.HasApplied)

	can, err := svc.CanReview(ctx, env.db, callerOf(seeker), job.ID)
	require.NoError(t, err)
	assert.False(t, can.CanReview)

	require.NoError(t, env.db.Model(app).Update("status", models.ApplicationStatusAccepted).Error)
	can, err = svc.CanReview(ctx, env.db, callerOf(seeker), job.ID)
	require.NoError(t, err)
	assert.True(t, can.CanReview)

	can, err = svc.CanReview(ctx, env.db, callerOf(employer), job.ID)
	require.NoError(t, err)
	assert.False(t, can.CanReview)

	_, err = svc.CanReview(ctx, env.db, callerOf(seeker), 4040)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCategoryService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.CategoryService

	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)
	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)

	_, err := svc.Create(ctx, env.db, callerOf(employer), &dto.CategoryRequest{Name: "Design"})
	assertCode(t, err, apperrors.CodeForbidden)

	created, err := svc.Create(ctx, env.db, callerOf(admin), &dto.CategoryRequest{Name: " Design "})
	require.NoError(t, err)
	assert.Equal(t, "Design", created.Name)

	_, err = svc.Create(ctx, env.db, callerOf(admin), &dto.CategoryRequest{Name: "Design"})
	assertCode(t, err, apperrors.CodeConflict)

	job := testutil.CreateJob(t, env.db, employer.ID, "Illustrator")
	require.NoError(t, env.db.Model(job).Update("category_id", created.ID).Error)

	got, err := svc.Get(ctx, env.db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.JobCount)

	list, err := svc.List(ctx, env.db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].JobCount)

	renamed, err := svc.Update(ctx, env.db, callerOf(admin), created.ID, &dto.UpdateCategoryRequest{Name: ptr("Visual Design")})
	require.NoError(t, err)
	assert.Equal(t, "Visual Design", renamed.Name)

	require.NoError(t, svc.Delete(ctx, env.db, callerOf(admin), created.ID))
	_, err = svc.Get(ctx, env.db, created.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}
