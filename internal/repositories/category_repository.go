package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.JobCategory) error
	FindByID(db *gorm.DB, id uint) (*models.JobCategory, error)
	FindAllWithJobCount(db *gorm.DB) ([]CategoryWithCount, error)
	CountJobs(db *gorm.DB, id uint) (int64, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type CategoryWithCount struct {
	models.JobCategory
	JobCount int64
}

type CategoryRepositoryImpl struct{}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{}
}

func (r *CategoryRepositoryImpl) Create(db *gorm.DB, category *models.JobCategory) error {
	if err := db.Create(category).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

func (r *CategoryRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.JobCategory, error) {
	var category models.JobCategory
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindAllWithJobCount(db *gorm.DB) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := db.Model(&models.JobCategory{}).
		Select("job_categories.*, (SELECT COUNT(*) FROM jobs WHERE jobs.category_id = job_categories.id) AS job_count").
		Order("job_categories.name").
		Scan(&rows).Error
	return rows, err
}

func (r *CategoryRepositoryImpl) CountJobs(db *gorm.DB, id uint) (int64, error) {
	var count int64
	err := db.Model(&models.Job{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *CategoryRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.JobCategory{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrCategoryExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete detaches jobs from the category before removing it.
func (r *CategoryRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	if err := db.Model(&models.Job{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return err
	}
	result := db.Delete(&models.JobCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
