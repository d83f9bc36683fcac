package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Callback outcomes, matching the last segment of the callback routes.
const (
	PaymentOutcomeSuccess = "success"
	PaymentOutcomeFail    = "fail"
	PaymentOutcomeCancel  = "cancel"
)

type PaymentConfig struct {
	FeaturePrice float64
	Currency     string
	BackendURL   string
	FrontendURL  string
}

type PaymentService interface {
	InitiateFeature(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.FeaturePaymentResponse, error)
	// HandleCallback records the gateway outcome and returns the frontend URL to redirect to.
	HandleCallback(ctx context.Context, db *gorm.DB, outcome, tranID string) string
}

type paymentService struct {
	gateway     payment.Gateway
	jobRepo     repositories.JobRepository
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	config      PaymentConfig
}

func NewPaymentService(
	gateway payment.Gateway,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	config PaymentConfig,
) PaymentService {
	if config.FeaturePrice <= 0 {
		config.FeaturePrice = 500
	}
	if config.Currency == "" {
		config.Currency = "BDT"
	}
	config.BackendURL = strings.TrimSuffix(config.BackendURL, "/")
	config.FrontendURL = strings.TrimSuffix(config.FrontendURL, "/")

	return &paymentService{
		gateway:     gateway,
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		config:      config,
	}
}

func (s *paymentService) InitiateFeature(ctx context.Context, db *gorm.DB, caller dto.Caller, jobID uint) (*dto.FeaturePaymentResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobLookup(err)
	}
	if err := authorizeJobOwner(caller, job); err != nil {
		return nil, err
	}
	if job.IsFeatured {
		return nil, apperrors.ErrConflict(nil, "payment", "This job is already featured")
	}

	customer, err := s.userRepo.FindByID(db, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFoundIn(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	tranID := payment.FeatureTranID(job.ID)
	record := &models.FeaturePayment{
		TranID:     tranID,
		JobID:      job.ID,
		EmployerID: job.EmployerID,
		Amount:     s.config.FeaturePrice,
		Currency:   s.config.Currency,
	}
	if err := s.paymentRepo.UpsertPending(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	callbackBase := s.config.BackendURL + "/api/v1/jobs/payment/"
	session, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		TranID:          tranID,
		Amount:          s.config.FeaturePrice,
		Currency:        s.config.Currency,
		SuccessURL:      callbackBase + PaymentOutcomeSuccess,
		FailURL:         callbackBase + PaymentOutcomeFail,
		CancelURL:       callbackBase + PaymentOutcomeCancel,
		CustomerName:    strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.PhoneNumber,
		CustomerAddress: customer.Address,
		ProductName:     "Feature Job: " + job.Title,
	})
	if err != nil {
		logger.CtxError(ctx, "payment gateway request failed", "job_id", job.ID, "error", err)
		return nil, apperrors.ErrExternalService(err, "payment", "Payment gateway is unavailable")
	}
	if !session.OK() {
		logger.CtxWarn(ctx, "payment initiation rejected", "job_id", job.ID, "status", session.Status, "reason", session.FailedReason)
		return nil, apperrors.ErrPaymentFailed(session.Raw)
	}

	logger.CtxInfo(ctx, "feature payment initiated", "job_id", job.ID, "tran_id", tranID)
	return &dto.FeaturePaymentResponse{
		PaymentURL: session.GatewayURL,
		TranID:     tranID,
		Amount:     s.config.FeaturePrice,
		Currency:   s.config.Currency,
	}, nil
}

// paymentStatusParams maps a callback outcome to the frontend query value and
// the stored payment status.
var paymentStatusParams = map[string]struct {
	query  string
	status models.PaymentStatus
}{
	PaymentOutcomeSuccess: {"success", models.PaymentStatusPaid},
	PaymentOutcomeFail:    {"failed", models.PaymentStatusFailed},
	PaymentOutcomeCancel:  {"canceled", models.PaymentStatusCancelled},
}

func (s *paymentService) HandleCallback(ctx context.Context, db *gorm.DB, outcome, tranID string) string {
	params, ok := paymentStatusParams[outcome]
	if !ok {
		return s.fallbackURL("error", tranID)
	}

	jobID, ok := payment.ParseFeatureTranID(tranID)
	if !ok {
		logger.CtxWarn(ctx, "payment callback with unknown transaction", "outcome", outcome, "tran_id", tranID)
		if outcome == PaymentOutcomeSuccess {
			return s.fallbackURL("error", tranID)
		}
		return s.fallbackURL(params.query, "")
	}

	if outcome != PaymentOutcomeSuccess {
		if _, err := s.paymentRepo.SetStatus(db, tranID, params.status, nil); err != nil {
			logger.CtxError(ctx, "failed to record payment outcome", "tran_id", tranID, "error", err)
		}
		return s.jobURL(jobID, params.query)
	}

	if err := s.markFeatured(db, jobID, tranID); err != nil {
		logger.CtxError(ctx, "failed to feature job after payment", "job_id", jobID, "error", err)
		return s.fallbackURL("error", tranID)
	}
	logger.CtxInfo(ctx, "job featured after payment", "job_id", jobID, "tran_id", tranID)
	return s.jobURL(jobID, params.query)
}

// markFeatured is idempotent: a repeated success callback finds the job already featured.
func (s *paymentService) markFeatured(db *gorm.DB, jobID uint, tranID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if _, err := s.jobRepo.FindByID(tx, jobID); err != nil {
		return err
	}
	if _, err := s.jobRepo.MarkFeatured(tx, jobID); err != nil {
		return err
	}
	paidAt := time.Now().UTC()
	if _, err := s.paymentRepo.SetStatus(tx, tranID, models.PaymentStatusPaid, &paidAt); err != nil {
		return err
	}
	return tx.Commit().Error
}

func (s *paymentService) jobURL(jobID uint, status string) string {
	return fmt.Sprintf("%s/dashboard/jobs/%d/?payment_status=%s", s.config.FrontendURL, jobID, status)
}

func (s *paymentService) fallbackURL(status, tranID string) string {
	u := fmt.Sprintf("%s/dashboard/jobs/?payment_status=%s", s.config.FrontendURL, status)
	if tranID != "" {
		u += "&tran_id=" + url.QueryEscape(tranID)
	}
	return u
}
