package services

import (
	"context"
	"fmt"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

// NotificationService emails the parties of an application. It never fails the caller.
type NotificationService interface {
	ApplicationReceived(ctx context.Context, db *gorm.DB, app *models.Application)
	ApplicationStatusChanged(ctx context.Context, db *gorm.DB, app *models.Application)
}

type notificationService struct {
	provider email.Provider
	userRepo repositories.UserRepository
	jobRepo  repositories.JobRepository
}

func NewNotificationService(provider email.Provider, userRepo repositories.UserRepository, jobRepo repositories.JobRepository) NotificationService {
	return &notificationService{
		provider: provider,
		userRepo: userRepo,
		jobRepo:  jobRepo,
	}
}

func (s *notificationService) ApplicationReceived(ctx context.Context, db *gorm.DB, app *models.Application) {
	job, applicant, ok := s.load(ctx, db, app)
	if !ok {
		return
	}
	employer, err := s.userRepo.FindByID(db, job.EmployerID)
	if err != nil {
		logger.CtxWarn(ctx, "notification skipped: employer lookup failed", "job_id", job.ID, "error", err)
		return
	}

	err = s.provider.SendTemplate(
		[]string{employer.Email},
		fmt.Sprintf("New application for %s", job.Title),
		email.TemplateApplicationReceived,
		email.TemplateData{
			"EmployerName":  employer.FullName(),
			"ApplicantName": applicant.FullName(),
			"JobTitle":      job.Title,
		},
	)
	if err != nil {
		logger.CtxError(ctx, "failed to send application notification", "application_id", app.ID, "error", err)
	}
}

func (s *notificationService) ApplicationStatusChanged(ctx context.Context, db *gorm.DB, app *models.Application) {
	job, applicant, ok := s.load(ctx, db, app)
	if !ok {
		return
	}

	err := s.provider.SendTemplate(
		[]string{applicant.Email},
		fmt.Sprintf("Your application for %s was updated", job.Title),
		email.TemplateApplicationStatus,
		email.TemplateData{
			"ApplicantName": applicant.FullName(),
			"JobTitle":      job.Title,
			"Status":        string(app.Status),
		},
	)
	if err != nil {
		logger.CtxError(ctx, "failed to send status notification", "application_id", app.ID, "error", err)
	}
}

func (s *notificationService) load(ctx context.Context, db *gorm.DB, app *models.Application) (*models.Job, *models.User, bool) {
	job, err := s.jobRepo.FindByID(db, app.JobID)
	if err != nil {
		logger.CtxWarn(ctx, "notification skipped: job lookup failed", "job_id", app.JobID, "error", err)
		return nil, nil, false
	}
	applicant, err := s.userRepo.FindByID(db, app.ApplicantID)
	if err != nil {
		logger.CtxWarn(ctx, "notification skipped: applicant lookup failed", "applicant_id", app.ApplicantID, "error", err)
		return nil, nil, false
	}
	return job, applicant, true
}
