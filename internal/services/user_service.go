package services

import (
	"context"
	"errors"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangeRole(ctx context.Context, db *gorm.DB, userID uint, role string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, db *gorm.DB, query *dto.UserListQuery, page, pageSize int) (*dto.UserListResponse, error)
	EnsureFirstAdmin(ctx context.Context, db *gorm.DB, email, password string) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFoundIn(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateMe(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := profileFields(req)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdateFields(tx, caller.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFoundIn(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Only admins may change a role here; anyone else has the field dropped.
	if req.Role != nil && caller.IsAdmin() {
		role, ok := models.ParseUserRole(*req.Role)
		if !ok {
			return nil, apperrors.ErrInvalidRole(*req.Role)
		}
		if err := syncRole(tx, s.userRepo, caller.ID, role); err != nil {
			return nil, err
		}
	} else if req.Role != nil {
		logger.CtxDebug(ctx, "ignoring role in profile update", "user_id", caller.ID)
	}

	user, err := s.userRepo.FindByID(tx, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFoundIn(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func profileFields(req *dto.UpdateProfileRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("address", req.Address)
	set("phone_number", req.PhoneNumber)
	set("bio", req.Bio)
	set("skills", req.Skills)
	set("education", req.Education)
	set("experience", req.Experience)
	set("linkedin_url", req.LinkedinURL)
	set("github_url", req.GithubURL)
	set("portfolio_url", req.PortfolioURL)
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = req.DateOfBirth.UTC()
	}
	return fields
}

// ChangeRole assigns role and moves the user into the matching group atomically.
// Applying the same role again leaves the same state.
func (s *userService) ChangeRole(ctx context.Context, db *gorm.DB, userID uint, role string) (*dto.UserResponse, error) {
	parsed, ok := models.ParseUserRole(role)
	if !ok {
		return nil, apperrors.ErrInvalidRole(role)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := syncRole(tx, s.userRepo, userID, parsed); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user role changed", "target_user_id", userID, "role", parsed)
	return dto.NewUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, db *gorm.DB, query *dto.UserListQuery, page, pageSize int) (*dto.UserListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	filter := repositories.UserFilter{
		Search:   query.Search,
		Page:     page,
		PageSize: pageSize,
	}
	if query.Role != "" {
		role, ok := models.ParseUserRole(query.Role)
		if !ok {
			return nil, apperrors.ErrInvalidRole(query.Role)
		}
		filter.Role = role
	}

	users, total, err := s.userRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users:    make([]*dto.UserResponse, 0, len(users)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}

// EnsureFirstAdmin creates the bootstrap admin when it does not exist yet.
// An existing account with that email is promoted instead.
func (s *userService) EnsureFirstAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, email)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		hash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			return apperrors.InternalError(hashErr)
		}
		user = &models.User{
			Email:        email,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			FirstName:    "Admin",
			IsVerified:   true,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			return apperrors.InternalError(err)
		}
		logger.Info("first admin created", "email", email)
	case err != nil:
		return apperrors.InternalError(err)
	}

	if err := syncRole(tx, s.userRepo, user.ID, models.UserRoleAdmin); err != nil {
		return err
	}
	return tx.Commit().Error
}
