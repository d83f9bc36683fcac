package services

import (
	"context"
	"errors"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	List(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID *uint, query *dto.ApplicationListQuery, page, pageSize int) (*dto.ApplicationListResponse, error)
	Get(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.ApplicationResponse, error)
	UpdateDetails(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error
}

// applicationScopes restricts what each role can see. Roles missing here see nothing.
var applicationScopes = map[models.UserRole]func(callerID uint) repositories.ApplicationFilter{
	models.UserRoleAdmin: func(uint) repositories.ApplicationFilter {
		return repositories.ApplicationFilter{}
	},
	models.UserRoleEmployer: func(callerID uint) repositories.ApplicationFilter {
		return repositories.ApplicationFilter{EmployerID: &callerID}
	},
	models.UserRoleSeeker: func(callerID uint) repositories.ApplicationFilter {
		return repositories.ApplicationFilter{ApplicantID: &callerID}
	},
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	documents       DocumentService
	notifications   NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	documents DocumentService,
	notifications NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		documents:       documents,
		notifications:   notifications,
	}
}

func (s *applicationService) Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	if !auth.HasPermission(caller.Role, auth.PermApplicationsCreate) {
		return nil, apperrors.ErrPermissionDenied("application", "Only job seekers can apply for jobs")
	}
	if req.JobID == 0 {
		return nil, apperrors.ValidationError(map[string]string{"job_id": "This field is required"})
	}

	if _, err := s.jobRepo.FindByID(db, req.JobID); err != nil {
		return nil, mapJobLookup(err)
	}
	// Checked up front so a duplicate does not leave stored files behind.
	exists, err := s.applicationRepo.Exists(db, req.JobID, caller.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, applicationExists(repositories.ErrApplicationExists)
	}

	app := &models.Application{
		JobID:         req.JobID,
		ApplicantID:   caller.ID,
		PortfolioLink: req.PortfolioLink,
		Status:        models.ApplicationStatusPending,
	}
	if app.Resume, err = s.documents.Save(ctx, DocumentResume, req.Resume); err != nil {
		return nil, err
	}
	if app.CoverLetter, err = s.documents.Save(ctx, DocumentCoverLetter, req.CoverLetter); err != nil {
		s.documents.Delete(ctx, app.Resume)
		return nil, err
	}

	created, err := s.create(db, app)
	if err != nil {
		s.documents.Delete(ctx, app.Resume)
		s.documents.Delete(ctx, app.CoverLetter)
		return nil, err
	}

	logger.CtxInfo(ctx, "application submitted", "application_id", created.ID, "job_id", created.JobID)
	s.notifications.ApplicationReceived(ctx, db, created)
	return dto.NewApplicationResponse(created), nil
}

func (s *applicationService) create(db *gorm.DB, app *models.Application) (*models.Application, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.applicationRepo.Create(tx, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationExists) {
			return nil, applicationExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	created, err := s.applicationRepo.FindByID(tx, app.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return created, nil
}

// List applies the caller's scope first; query filters can only narrow it.
func (s *applicationService) List(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID *uint, query *dto.ApplicationListQuery, page, pageSize int) (*dto.ApplicationListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	resp := &dto.ApplicationListResponse{
		Applications: []*dto.ApplicationResponse{},
		Page:         page,
		PageSize:     pageSize,
	}

	if jobID != nil {
		if _, err := s.jobRepo.FindByID(db, *jobID); err != nil {
			return nil, mapJobLookup(err)
		}
	}

	scope, ok := applicationScopes[caller.Role]
	if !ok {
		return resp, nil
	}
	filter := scope(caller.ID)
	filter.JobID = jobID
	filter.Page = page
	filter.PageSize = pageSize

	if query != nil {
		if query.JobEmployer != nil && (caller.IsAdmin() ||
			(caller.Role == models.UserRoleEmployer && *query.JobEmployer == caller.ID)) {
			filter.EmployerID = query.JobEmployer
		}
		if query.Applicant != nil && (caller.IsAdmin() ||
			(caller.Role == models.UserRoleSeeker && *query.Applicant == caller.ID)) {
			filter.ApplicantID = query.Applicant
		}
		if query.Status != "" {
			filter.Status = models.ApplicationStatus(query.Status)
		}
	}

	apps, total, err := s.applicationRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.Total = total
	for i := range apps {
		resp.Applications = append(resp.Applications, dto.NewApplicationResponse(&apps[i]))
	}
	return resp, nil
}

func (s *applicationService) Get(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.ApplicationResponse, error) {
	scope, ok := applicationScopes[caller.Role]
	if !ok {
		return nil, applicationNotFound(repositories.ErrApplicationNotFound)
	}
	app, err := s.applicationRepo.FindVisible(db, id, scope(caller.ID))
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	return dto.NewApplicationResponse(app), nil
}

// UpdateStatus moves an application along the review ladder for the job's
// employer or an admin.
func (s *applicationService) UpdateStatus(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error) {
	target := models.ApplicationStatus(req.Status)
	if !target.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Must be a valid application status"})
	}
	if !auth.HasPermission(caller.Role, auth.PermApplicationsReview) {
		return nil, apperrors.ErrPermissionDenied("application", "Only the job's employer or an admin can update the status")
	}
	if target == models.ApplicationStatusWithdrawn {
		return nil, apperrors.ErrPermissionDenied("application", "Only the applicant can withdraw an application")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.applicationRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	if !caller.IsAdmin() && app.Job.EmployerID != caller.ID {
		return nil, apperrors.ErrPermissionDenied("application", "Only the job's employer or an admin can update the status")
	}
	if !app.Status.CanReviewTo(target) {
		return nil, apperrors.ErrInvalidTransition("application",
			"Cannot change status from "+string(app.Status)+" to "+string(target))
	}

	updated, err := s.transition(tx, app, target)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application status changed", "application_id", id, "from", app.Status, "to", target)
	s.notifications.ApplicationStatusChanged(ctx, db, updated)
	return dto.NewApplicationResponse(updated), nil
}

func (s *applicationService) Withdraw(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.ApplicationResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.applicationRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	if app.ApplicantID != caller.ID {
		return nil, apperrors.ErrPermissionDenied("application", "Only the applicant can withdraw an application")
	}
	if !app.Status.CanWithdraw() {
		return nil, apperrors.ErrInvalidTransition("application",
			"Cannot withdraw an application that is "+string(app.Status))
	}

	updated, err := s.transition(tx, app, models.ApplicationStatusWithdrawn)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application withdrawn", "application_id", id)
	return dto.NewApplicationResponse(updated), nil
}

// transition writes the new status only if nobody changed it since app was read.
func (s *applicationService) transition(tx *gorm.DB, app *models.Application, to models.ApplicationStatus) (*models.Application, error) {
	changed, err := s.applicationRepo.UpdateStatusIf(tx, app.ID, app.Status, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !changed {
		return nil, apperrors.ErrInvalidTransition("application", "Application status was changed concurrently")
	}
	updated, err := s.applicationRepo.FindByID(tx, app.ID)
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	return updated, nil
}

func (s *applicationService) UpdateDetails(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	current, err := s.applicationRepo.FindByID(db, id)
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	if current.ApplicantID != caller.ID {
		return nil, apperrors.ErrPermissionDenied("application", "Only the applicant can edit an application")
	}
	if current.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidTransition("application",
			"Cannot edit an application that is "+string(current.Status))
	}

	fields := make(map[string]interface{})
	if req.PortfolioLink != nil {
		fields["portfolio_link"] = *req.PortfolioLink
	}
	var saved, replaced []string
	rollbackFiles := func() {
		for _, url := range saved {
			s.documents.Delete(ctx, url)
		}
	}
	if req.Resume != nil {
		url, err := s.documents.Save(ctx, DocumentResume, req.Resume)
		if err != nil {
			return nil, err
		}
		fields["resume"] = url
		saved = append(saved, url)
		replaced = append(replaced, current.Resume)
	}
	if req.CoverLetter != nil {
		url, err := s.documents.Save(ctx, DocumentCoverLetter, req.CoverLetter)
		if err != nil {
			rollbackFiles()
			return nil, err
		}
		fields["cover_letter"] = url
		saved = append(saved, url)
		replaced = append(replaced, current.CoverLetter)
	}

	updated, err := s.updateDetails(db, current, fields)
	if err != nil {
		rollbackFiles()
		return nil, err
	}
	for _, url := range replaced {
		s.documents.Delete(ctx, url)
	}
	return dto.NewApplicationResponse(updated), nil
}

func (s *applicationService) updateDetails(db *gorm.DB, current *models.Application, fields map[string]interface{}) (*models.Application, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// A status change between the read and this write rejects the edit.
	changed, err := s.applicationRepo.UpdateFieldsIf(tx, current.ID, current.Status, fields)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !changed {
		return nil, apperrors.ErrInvalidTransition("application", "Application status was changed concurrently")
	}

	updated, err := s.applicationRepo.FindByID(tx, current.ID)
	if err != nil {
		return nil, mapApplicationLookup(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return updated, nil
}

func (s *applicationService) Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error {
	if !auth.HasPermission(caller.Role, auth.PermApplicationsAll) {
		return apperrors.ErrPermissionDenied("application", "Only admins can delete applications")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.applicationRepo.FindByID(tx, id)
	if err != nil {
		return mapApplicationLookup(err)
	}
	if err := s.applicationRepo.Delete(tx, id); err != nil {
		return mapApplicationLookup(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.documents.Delete(ctx, app.Resume)
	s.documents.Delete(ctx, app.CoverLetter)
	return nil
}

func applicationNotFound(err error) *apperrors.AppError {
	return apperrors.ErrNotFoundIn(err, "application", "Application not found")
}

func applicationExists(err error) *apperrors.AppError {
	return apperrors.ErrConflict(err, "application", "You have already applied for this job")
}

func mapApplicationLookup(err error) error {
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return applicationNotFound(err)
	}
	return apperrors.InternalError(err)
}
