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

type ReviewService interface {
	Create(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	List(ctx context.Context, db *gorm.DB, jobID uint, page, pageSize int) (*dto.ReviewListResponse, error)
	Get(ctx context.Context, db *gorm.DB, jobID, reviewID uint) (*dto.ReviewResponse, error)
	Update(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID, reviewID uint, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID, reviewID uint) error
}

type reviewService struct {
	reviewRepo      repositories.ReviewRepository
	jobRepo         repositories.JobRepository
	applicationRepo repositories.ApplicationRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
	}
}

// Create records a seeker's review of the employer behind a job. The accepted
// application is locked for the insert so it cannot be withdrawn or removed
// while the review is written.
func (s *reviewService) Create(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return nil, mapJobLookup(err)
	}
	if caller.ID == job.EmployerID {
		return nil, apperrors.ErrPermissionDenied("review", "Employers cannot review their own job postings")
	}
	if !auth.HasPermission(caller.Role, auth.PermReviewsWrite) {
		return nil, apperrors.ErrPermissionDenied("review", "Only job seekers can leave reviews")
	}

	if _, err := s.applicationRepo.FindAcceptedForUpdate(tx, jobID, caller.ID); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrPermissionDenied("review", "You can only review jobs where your application was accepted")
		}
		return nil, apperrors.InternalError(err)
	}

	review := &models.EmployerReview{
		JobID:       jobID,
		EmployerID:  job.EmployerID,
		JobSeekerID: caller.ID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.reviewRepo.Create(tx, review); err != nil {
		return nil, mapReviewError(err)
	}
	created, err := s.reviewRepo.FindByID(tx, jobID, review.ID)
	if err != nil {
		return nil, mapReviewError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "review created", "review_id", created.ID, "job_id", jobID)
	return dto.NewReviewResponse(created), nil
}

func (s *reviewService) List(ctx context.Context, db *gorm.DB, jobID uint, page, pageSize int) (*dto.ReviewListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, mapJobLookup(err)
	}

	reviews, total, err := s.reviewRepo.FindByJob(db, jobID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ReviewListResponse{
		Reviews:  make([]*dto.ReviewResponse, 0, len(reviews)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(&reviews[i]))
	}
	return resp, nil
}

func (s *reviewService) Get(ctx context.Context, db *gorm.DB, jobID, reviewID uint) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, jobID, reviewID)
	if err != nil {
		return nil, mapReviewError(err)
	}
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID, reviewID uint, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindByID(tx, jobID, reviewID)
	if err != nil {
		return nil, mapReviewError(err)
	}
	if review.JobSeekerID != caller.ID {
		return nil, apperrors.ErrPermissionDenied("review", "Only the author can edit this review")
	}

	fields := make(map[string]interface{})
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = *req.Comment
	}
	if err := s.reviewRepo.UpdateFields(tx, reviewID, fields); err != nil {
		return nil, mapReviewError(err)
	}

	updated, err := s.reviewRepo.FindByID(tx, jobID, reviewID)
	if err != nil {
		return nil, mapReviewError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewReviewResponse(updated), nil
}

func (s *reviewService) Delete(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID, reviewID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindByID(tx, jobID, reviewID)
	if err != nil {
		return mapReviewError(err)
	}
	if review.JobSeekerID != caller.ID {
		return apperrors.ErrPermissionDenied("review", "Only the author can delete this review")
	}
	if err := s.reviewRepo.Delete(tx, reviewID); err != nil {
		return mapReviewError(err)
	}
	return tx.Commit().Error
}

func mapReviewError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.ErrNotFoundIn(err, "review", "Review not found")
	case errors.Is(err, repositories.ErrReviewExists):
		return apperrors.ErrConflict(err, "review", "You have already reviewed this job")
	default:
		return apperrors.InternalError(err)
	}
}
