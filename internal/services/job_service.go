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

type JobService interface {
	List(ctx context.Context, db *gorm.DB, query *dto.JobListQuery, page, pageSize int) (*dto.JobListResponse, error)
	Featured(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.JobListResponse, error)
	Get(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.JobResponse, error)
	Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Update(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error

	HasApplied(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.HasAppliedResponse, error)
	CanReview(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.CanReviewResponse, error)
}

type jobService struct {
	jobRepo         repositories.JobRepository
	categoryRepo    repositories.CategoryRepository
	applicationRepo repositories.ApplicationRepository
}

func NewJobService(
	jobRepo repositories.JobRepository,
	categoryRepo repositories.CategoryRepository,
	applicationRepo repositories.ApplicationRepository,
) JobService {
	return &jobService{
		jobRepo:         jobRepo,
		categoryRepo:    categoryRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *jobService) List(ctx context.Context, db *gorm.DB, query *dto.JobListQuery, page, pageSize int) (*dto.JobListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	filter := repositories.JobFilter{
		CategoryID:   query.CategoryID,
		EmployerID:   query.EmployerID,
		SalaryGT:     query.SalaryGT,
		SalaryLT:     query.SalaryLT,
		Search:       query.Search,
		Ordering:     query.Ordering,
		NoPagination: query.NoPagination,
		Page:         page,
		PageSize:     pageSize,
	}
	return s.list(db, filter)
}

// Featured lists active jobs that have been promoted.
func (s *jobService) Featured(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.JobListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.list(db, repositories.JobFilter{
		FeaturedOnly: true,
		ActiveOnly:   true,
		Page:         page,
		PageSize:     pageSize,
	})
}

func (s *jobService) list(db *gorm.DB, filter repositories.JobFilter) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobListResponse{
		Jobs:  make([]*dto.JobResponse, 0, len(jobs)),
		Total: total,
	}
	if !filter.NoPagination {
		resp.Page = filter.Page
		resp.PageSize = filter.PageSize
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(&jobs[i]))
	}
	return resp, nil
}

// Get returns a job and counts the view unless the owner is looking.
func (s *jobService) Get(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, id)
	if err != nil {
		return nil, mapJobLookup(err)
	}

	if caller.ID == 0 || caller.ID != job.EmployerID {
		if err := s.jobRepo.IncrementViews(db, id); err != nil {
			logger.CtxWarn(ctx, "failed to count job view", "job_id", id, "error", err)
		} else {
			job.ViewsCount++
		}
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) Create(ctx context.Context, db *gorm.DB, caller dto.Caller, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if !auth.HasPermission(caller.Role, auth.PermJobsWrite) {
		return nil, apperrors.ErrPermissionDenied("job", "Only employers and admins can post jobs")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.checkCategory(tx, req.CategoryID); err != nil {
		return nil, err
	}

	job := &models.Job{
		EmployerID:      caller.ID,
		Title:           req.Title,
		CompanyName:     req.CompanyName,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Location:        req.Location,
		CategoryID:      req.CategoryID,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		RemoteOption:    req.RemoteOption,
		Salary:          req.Salary,
		IsActive:        true,
	}
	if auth.HasPermission(caller.Role, auth.PermJobsModerate) {
		if req.IsActive != nil {
			job.IsActive = *req.IsActive
		}
		if req.IsFeatured != nil {
			job.IsFeatured = *req.IsFeatured
		}
	}

	if err := s.jobRepo.Create(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	created, err := s.jobRepo.FindByID(tx, job.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", created.ID, "employer_id", created.EmployerID)
	return dto.NewJobResponse(created), nil
}

func (s *jobService) Update(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapJobLookup(err)
	}
	if err := authorizeJobOwner(caller, job); err != nil {
		return nil, err
	}
	if err := s.checkCategory(tx, req.CategoryID); err != nil {
		return nil, err
	}

	fields := jobUpdateFields(req, auth.HasPermission(caller.Role, auth.PermJobsModerate))
	if err := s.jobRepo.UpdateFields(tx, id, fields); err != nil {
		return nil, mapJobLookup(err)
	}

	updated, err := s.jobRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapJobLookup(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewJobResponse(updated), nil
}

func (s *jobService) Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, id)
	if err != nil {
		return mapJobLookup(err)
	}
	if err := authorizeJobOwner(caller, job); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(tx, id); err != nil {
		return mapJobLookup(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job deleted", "job_id", id)
	return nil
}

func (s *jobService) HasApplied(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.HasAppliedResponse, error) {
	if caller.Role != models.UserRoleSeeker {
		return nil, apperrors.ErrPermissionDenied("job", "Only job seekers can check application status")
	}

	applied, err := s.applicationRepo.Exists(db, jobID, caller.ID)
	if err != nil {
		logger.CtxError(ctx, "failed to check application", "job_id", jobID, "error", err)
		return nil, apperrors.InternalError(err)
	}
	return &dto.HasAppliedResponse{HasApplied: applied}, nil
}

// CanReview reports whether the caller holds an accepted application for the job.
func (s *jobService) CanReview(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.CanReviewResponse, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, mapJobLookup(err)
	}
	if caller.Role != models.UserRoleSeeker {
		return &dto.CanReviewResponse{CanReview: false}, nil
	}

	_, err := s.applicationRepo.FindAccepted(db, jobID, caller.ID)
	switch {
	case err == nil:
		return &dto.CanReviewResponse{CanReview: true}, nil
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return &dto.CanReviewResponse{CanReview: false}, nil
	default:
		return nil, apperrors.InternalError(err)
	}
}

func (s *jobService) checkCategory(db *gorm.DB, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(db, *categoryID); err != nil {
		return mapCategoryError(err)
	}
	return nil
}

// authorizeJobOwner allows admins and the employer who posted the job.
func authorizeJobOwner(caller dto.Caller, job *models.Job) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.Role == models.UserRoleEmployer && caller.ID == job.EmployerID {
		return nil
	}
	return apperrors.ErrPermissionDenied("job", "You can only manage your own job postings")
}

func jobUpdateFields(req *dto.UpdateJobRequest, moderator bool) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.CompanyName != nil {
		fields["company_name"] = *req.CompanyName
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Requirements != nil {
		fields["requirements"] = *req.Requirements
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.EmploymentType != nil {
		fields["employment_type"] = *req.EmploymentType
	}
	if req.ExperienceLevel != nil {
		fields["experience_level"] = *req.ExperienceLevel
	}
	if req.RemoteOption != nil {
		fields["remote_option"] = *req.RemoteOption
	}
	if req.Salary != nil {
		fields["salary"] = *req.Salary
	}
	if moderator {
		if req.IsActive != nil {
			fields["is_active"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			fields["is_featured"] = *req.IsFeatured
		}
	}
	return fields
}
