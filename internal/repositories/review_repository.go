package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this job")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.EmployerReview) error
	FindByID(db *gorm.DB, jobID, id uint) (*models.EmployerReview, error)
	FindByJob(db *gorm.DB, jobID uint, page, pageSize int) ([]models.EmployerReview, int64, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.EmployerReview) error {
	if err := db.Create(review).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrReviewExists
		}
		return err
	}
	return nil
}

// FindByID only matches reviews belonging to jobID.
func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, jobID, id uint) (*models.EmployerReview, error) {
	var review models.EmployerReview
	err := db.Preload("JobSeeker").Where("job_id = ?", jobID).First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByJob(db *gorm.DB, jobID uint, page, pageSize int) ([]models.EmployerReview, int64, error) {
	query := db.Model(&models.EmployerReview{}).Where("job_id = ?", jobID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.EmployerReview
	err := query.Scopes(paginate(page, pageSize)).
		Preload("JobSeeker").
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.EmployerReview{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.EmployerReview{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
