package repositories

import (
	"errors"
	"strings"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id uint) (*models.Job, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
	FindWithFilter(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	IncrementViews(db *gorm.DB, id uint) error
	MarkFeatured(db *gorm.DB, id uint) (int64, error)
}

// JobFilter mirrors the listing query string.
type JobFilter struct {
	CategoryID   *uint
	EmployerID   *uint
	SalaryGT     *float64
	SalaryLT     *float64
	Search       string
	Ordering     string
	FeaturedOnly bool
	ActiveOnly   bool
	Page         int
	PageSize     int
	NoPagination bool
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := db.Preload("Category").First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete removes the job together with its applications and reviews.
func (r *JobRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	if err := db.Where("job_id = ?", id).Delete(&models.EmployerReview{}).Error; err != nil {
		return err
	}
	if err := db.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindWithFilter(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.EmployerID != nil {
		query = query.Where("employer_id = ?", *filter.EmployerID)
	}
	if filter.SalaryGT != nil {
		query = query.Where("salary > ?", *filter.SalaryGT)
	}
	if filter.SalaryLT != nil {
		query = query.Where("salary < ?", *filter.SalaryLT)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if !filter.NoPagination {
		query = query.Scopes(paginate(filter.Page, filter.PageSize))
	}

	var jobs []models.Job
	err := query.Preload("Category").Order(jobOrderClause(filter.Ordering)).Order("id DESC").Find(&jobs).Error
	return jobs, total, err
}

// jobOrderClause turns "-created_at" style input into SQL. Callers validate the column.
func jobOrderClause(ordering string) string {
	if ordering == "" {
		ordering = "-created_at"
	}
	if strings.HasPrefix(ordering, "-") {
		return strings.TrimPrefix(ordering, "-") + " DESC"
	}
	return ordering + " ASC"
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, id uint) error {
	return db.Model(&models.Job{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("COALESCE(views_count, 0) + 1")).Error
}

// MarkFeatured flips is_featured on and returns the number of rows changed.
// Zero means the job is missing or already featured.
func (r *JobRepositoryImpl) MarkFeatured(db *gorm.DB, id uint) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND is_featured = ?", id, false).
		Update("is_featured", true)
	return result.RowsAffected, result.Error
}
