package repositories

import (
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	CountUsers(db *gorm.DB) (int64, error)
	CountJobs(db *gorm.DB, q JobCountQuery) (int64, error)
	CountApplications(db *gorm.DB, q ApplicationCountQuery) (int64, error)
	RecentJobs(db *gorm.DB, limit int) ([]models.Job, error)
	RecentApplications(db *gorm.DB, q ApplicationCountQuery, limit int) ([]models.Application, error)
	TopJobsByViews(db *gorm.DB, employerID uint, limit int) ([]JobWithApplications, error)
	RecommendedJobs(db *gorm.DB, seekerID uint, limit int) ([]models.Job, error)
}

type JobCountQuery struct {
	EmployerID   *uint
	FeaturedOnly bool
	ActiveOnly   bool
	Since        *time.Time
}

type ApplicationCountQuery struct {
	ApplicantID *uint
	EmployerID  *uint
	Status      models.ApplicationStatus
	Since       *time.Time
}

type JobWithApplications struct {
	ID                uint
	Title             string
	ViewsCount        int64
	ApplicationsCount int64
}

type DashboardRepositoryImpl struct{}

func NewDashboardRepository() DashboardRepository {
	return &DashboardRepositoryImpl{}
}

func (r *DashboardRepositoryImpl) CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepositoryImpl) CountJobs(db *gorm.DB, q JobCountQuery) (int64, error) {
	query := db.Model(&models.Job{})
	if q.EmployerID != nil {
		query = query.Where("employer_id = ?", *q.EmployerID)
	}
	if q.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if q.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if q.Since != nil {
		query = query.Where("created_at >= ?", *q.Since)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *DashboardRepositoryImpl) applicationQuery(db *gorm.DB, q ApplicationCountQuery) *gorm.DB {
	filter := ApplicationFilter{
		ApplicantID: q.ApplicantID,
		EmployerID:  q.EmployerID,
		Status:      q.Status,
	}
	query := filter.apply(db.Model(&models.Application{}))
	if q.Since != nil {
		query = query.Where("applications.applied_at >= ?", *q.Since)
	}
	return query
}

func (r *DashboardRepositoryImpl) CountApplications(db *gorm.DB, q ApplicationCountQuery) (int64, error) {
	var count int64
	err := r.applicationQuery(db, q).Count(&count).Error
	return count, err
}

func (r *DashboardRepositoryImpl) RecentJobs(db *gorm.DB, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *DashboardRepositoryImpl) RecentApplications(db *gorm.DB, q ApplicationCountQuery, limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.applicationQuery(db, q).
		Preload("Job").
		Order("applications.applied_at DESC").Order("applications.id DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

// TopJobsByViews ranks the employer's jobs by views, treating NULL as zero.
func (r *DashboardRepositoryImpl) TopJobsByViews(db *gorm.DB, employerID uint, limit int) ([]JobWithApplications, error) {
	var rows []JobWithApplications
	err := db.Model(&models.Job{}).
		Select("jobs.id, jobs.title, COALESCE(jobs.views_count, 0) AS views_count, " +
			"(SELECT COUNT(*) FROM applications WHERE applications.job_id = jobs.id) AS applications_count").
		Where("jobs.employer_id = ?", employerID).
		Order("views_count DESC").Order("jobs.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecommendedJobs returns active jobs the seeker has not applied to, newest first.
func (r *DashboardRepositoryImpl) RecommendedJobs(db *gorm.DB, seekerID uint, limit int) ([]models.Job, error) {
	applied := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Application{}).Select("job_id").Where("applicant_id = ?", seekerID)

	var jobs []models.Job
	err := db.Where("is_active = ?", true).
		Where("id NOT IN (?)", applied).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
