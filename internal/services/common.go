package services

import (
	"errors"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// syncRole persists role on the user and makes the matching group the user's
// only role-group. Must run inside the caller's transaction.
func syncRole(tx *gorm.DB, userRepo repositories.UserRepository, userID uint, role models.UserRole) error {
	if !role.IsValid() {
		return apperrors.ErrInvalidRole(string(role))
	}

	if _, err := userRepo.FindByIDForUpdate(tx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFoundIn(err, "user", "User not found")
		}
		return apperrors.InternalError(err)
	}

	if err := userRepo.UpdateFields(tx, userID, map[string]interface{}{"role": role}); err != nil {
		return apperrors.InternalError(err)
	}

	group, err := userRepo.EnsureGroup(tx, role.GroupName())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := userRepo.ReplaceRoleGroup(tx, userID, group); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func jobNotFound(err error) *apperrors.AppError {
	return apperrors.ErrNotFoundIn(err, "job", "Job not found")
}

// mapJobLookup converts a JobRepository lookup error.
func mapJobLookup(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return jobNotFound(err)
	}
	return apperrors.InternalError(err)
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
