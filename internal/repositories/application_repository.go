package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists for this job")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id uint) (*models.Application, error)
	FindVisible(db *gorm.DB, id uint, filter ApplicationFilter) (*models.Application, error)
	FindWithFilter(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error)
	UpdateStatusIf(db *gorm.DB, id uint, from, to models.ApplicationStatus) (bool, error)
	UpdateFieldsIf(db *gorm.DB, id uint, status models.ApplicationStatus, fields map[string]interface{}) (bool, error)
	Delete(db *gorm.DB, id uint) error
	Exists(db *gorm.DB, jobID, applicantID uint) (bool, error)
	FindAccepted(db *gorm.DB, jobID, applicantID uint) (*models.Application, error)
	FindAcceptedForUpdate(db *gorm.DB, jobID, applicantID uint) (*models.Application, error)
}

// ApplicationFilter narrows a listing. EmployerID matches the owner of the job.
type ApplicationFilter struct {
	JobID       *uint
	ApplicantID *uint
	EmployerID  *uint
	Status      models.ApplicationStatus
	Page        int
	PageSize    int
}

func (f ApplicationFilter) apply(db *gorm.DB) *gorm.DB {
	if f.JobID != nil {
		db = db.Where("applications.job_id = ?", *f.JobID)
	}
	if f.ApplicantID != nil {
		db = db.Where("applications.applicant_id = ?", *f.ApplicantID)
	}
	if f.EmployerID != nil {
		db = db.Where("applications.job_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Job{}).Select("id").Where("employer_id = ?", *f.EmployerID))
	}
	if f.Status != "" {
		db = db.Where("applications.status = ?", f.Status)
	}
	return db
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

// Create relies on the (job_id, applicant_id) unique index to reject duplicates.
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	if err := db.Create(app).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Application, error) {
	var app models.Application
	if err := db.Preload("Job").First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// FindVisible loads an application only if it also matches filter.
func (r *ApplicationRepositoryImpl) FindVisible(db *gorm.DB, id uint, filter ApplicationFilter) (*models.Application, error) {
	var app models.Application
	query := filter.apply(db.Model(&models.Application{}).Where("applications.id = ?", id))
	if err := query.Preload("Job").First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindWithFilter(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := filter.apply(db.Model(&models.Application{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Preload("Job").
		Order("applications.applied_at DESC").Order("applications.id DESC").
		Find(&apps).Error
	return apps, total, err
}

// UpdateStatusIf is a compare-and-set: the row changes only while it still holds from.
func (r *ApplicationRepositoryImpl) UpdateStatusIf(db *gorm.DB, id uint, from, to models.ApplicationStatus) (bool, error) {
	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateFieldsIf updates fields only while the application still has status.
func (r *ApplicationRepositoryImpl) UpdateFieldsIf(db *gorm.DB, id uint, status models.ApplicationStatus, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, status).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Application{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Exists(db *gorm.DB, jobID, applicantID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error
	return count > 0, err
}

// FindAccepted returns the accepted application for (job, applicant) without locking.
func (r *ApplicationRepositoryImpl) FindAccepted(db *gorm.DB, jobID, applicantID uint) (*models.Application, error) {
	return r.findAccepted(db, jobID, applicantID)
}

// FindAcceptedForUpdate is FindAccepted that also locks the row until the
// surrounding transaction ends.
func (r *ApplicationRepositoryImpl) FindAcceptedForUpdate(db *gorm.DB, jobID, applicantID uint) (*models.Application, error) {
	return r.findAccepted(db.Clauses(clause.Locking{Strength: "UPDATE"}), jobID, applicantID)
}

func (r *ApplicationRepositoryImpl) findAccepted(db *gorm.DB, jobID, applicantID uint) (*models.Application, error) {
	var app models.Application
	err := db.Where("job_id = ? AND applicant_id = ? AND status = ?", jobID, applicantID, models.ApplicationStatusAccepted).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}
