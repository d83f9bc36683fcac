package services

import (
	"context"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testutil"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.AuthService

	req := &dto.RegisterRequest{
		Email:       "  Seeker@Example.com ",
		Password:    "password123",
		FirstName:   "Sam",
		LastName:    "Seeker",
		Address:     "Dhaka",
		PhoneNumber: "01700000000",
		Role:        "seeker",
	}
	resp, err := svc.Register(ctx, env.db, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "seeker@example.com", resp.User.Email)
	assert.Equal(t, models.UserRoleSeeker, resp.User.Role)
	assert.Equal(t, []string{"Job Seeker"}, resp.User.Groups)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, env.db, req)
		assertCode(t, err, apperrors.CodeAlreadyExists)
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		admin := *req
		admin.Email = "boss@example.com"
		admin.Role = "admin"
		_, err := svc.Register(ctx, env.db, &admin)
		assertCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := svc.Login(ctx, env.db, &dto.LoginRequest{Email: "seeker@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		_, err = svc.Login(ctx, env.db, &dto.LoginRequest{Email: "seeker@example.com", Password: "wrong-password"})
		assertCode(t, err, apperrors.CodeInvalidCredentials)

		_, err = svc.Login(ctx, env.db, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assertCode(t, err, apperrors.CodeInvalidCredentials)
	})
}

func TestChangeRole_SyncsGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.UserService
	userRepo := repositories.NewUserRepository()

	user := testutil.CreateUser(t, env.db, models.UserRoleSeeker)

	for i := 0; i < 2; i++ {
		resp, err := svc.ChangeRole(ctx, env.db, user.ID, "employer")
		require.NoError(t, err)
		assert.Equal(t, models.UserRoleEmployer, resp.Role)
		assert.Equal(t, []string{"Employer"}, resp.Groups)
	}

	names, err := userRepo.FindGroupNames(env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Employer"}, names)

	_, err = svc.ChangeRole(ctx, env.db, user.ID, "superuser")
	assertCode(t, err, apperrors.CodeInvalidRole)

	_, err = svc.ChangeRole(ctx, env.db, 9999, "seeker")
	assertCode(t, err, apperrors.CodeNotFound)

	stored, err := userRepo.FindByID(env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleEmployer, stored.Role)
}

func TestUpdateMe_RoleOnlyForAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.UserService

	seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)
	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)

	bio := "  Go developer  "
	role := "admin"
	resp, err := svc.UpdateMe(ctx, env.db, callerOf(seeker), &dto.UpdateProfileRequest{Bio: &bio, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Go developer", resp.Bio)
	assert.Equal(t, models.UserRoleSeeker, resp.Role)

	employer := "employer"
	resp, err = svc.UpdateMe(ctx, env.db, callerOf(admin), &dto.UpdateProfileRequest{Role: &employer})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleEmployer, resp.Role)
	assert.Equal(t, []string{"Employer"}, resp.Groups)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.db, models.UserRoleSeeker)
	testutil.CreateUser(t, env.db, models.UserRoleSeeker)
	testutil.CreateUser(t, env.db, models.UserRoleEmployer)

	resp, err := env.services.UserService.ListUsers(ctx, env.db, &dto.UserListQuery{Role: "seeker"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Users, 2)

	_, err = env.services.UserService.ListUsers(ctx, env.db, &dto.UserListQuery{Role: "alien"}, 1, 10)
	assertCode(t, err, apperrors.CodeInvalidRole)
}

func TestEnsureFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.UserService
	userRepo := repositories.NewUserRepository()

	require.NoError(t, svc.EnsureFirstAdmin(ctx, env.db, "", ""))

	require.NoError(t, svc.EnsureFirstAdmin(ctx, env.db, "Root@Example.com", "password123"))
	require.NoError(t, svc.EnsureFirstAdmin(ctx, env.db, "root@example.com", "password123"))

	admin, err := userRepo.FindByEmail(env.db, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, admin.Role)

	names, err := userRepo.FindGroupNames(env.db, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin"}, names)

	users, total, err := userRepo.FindWithFilter(env.db, repositories.UserFilter{Role: models.UserRoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}
