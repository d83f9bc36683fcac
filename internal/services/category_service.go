package services

import (
	"context"
	"errors"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, db *gorm.DB) ([]*dto.CategoryResponse, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*dto.CategoryResponse, error)
	Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, db *gorm.DB) ([]*dto.CategoryResponse, error) {
	rows, err := s.categoryRepo.FindAllWithJobCount(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	result := make([]*dto.CategoryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, newCategoryResponse(&row.JobCategory, row.JobCount))
	}
	return result, nil
}

func (s *categoryService) Get(ctx context.Context, db *gorm.DB, id uint) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	count, err := s.categoryRepo.CountJobs(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newCategoryResponse(category, count), nil
}

func (s *categoryService) Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if !auth.HasPermission(caller.Role, auth.PermCategoriesWrite) {
		return nil, apperrors.ErrPermissionDenied("category", "Only admins can manage categories")
	}

	category := &models.JobCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(db, category); err != nil {
		return nil, mapCategoryError(err)
	}
	return newCategoryResponse(category, 0), nil
}

func (s *categoryService) Update(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if !auth.HasPermission(caller.Role, auth.PermCategoriesWrite) {
		return nil, apperrors.ErrPermissionDenied("category", "Only admins can manage categories")
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.categoryRepo.FindByID(tx, id); err != nil {
		return nil, mapCategoryError(err)
	}
	if err := s.categoryRepo.UpdateFields(tx, id, fields); err != nil {
		return nil, mapCategoryError(err)
	}
	category, err := s.categoryRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	count, err := s.categoryRepo.CountJobs(tx, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newCategoryResponse(category, count), nil
}

func (s *categoryService) Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error {
	if !auth.HasPermission(caller.Role, auth.PermCategoriesWrite) {
		return apperrors.ErrPermissionDenied("category", "Only admins can manage categories")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.categoryRepo.Delete(tx, id); err != nil {
		return mapCategoryError(err)
	}
	return tx.Commit().Error
}

func mapCategoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.ErrNotFoundIn(err, "category", "Category not found")
	case errors.Is(err, repositories.ErrCategoryExists):
		return apperrors.ErrConflict(err, "category", "A category with this name already exists")
	default:
		return apperrors.InternalError(err)
	}
}

func newCategoryResponse(c *models.JobCategory, jobCount int64) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		JobCount:    jobCount,
	}
}
