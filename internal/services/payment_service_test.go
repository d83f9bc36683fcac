package services

import (
	"context"
	"errors"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/testutil"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_InitiateFeature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.PaymentService
	payments := repositories.NewPaymentRepository()

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	job := testutil.CreateJob(t, env.db, employer.ID, "Golang Lead")

	resp, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.test/pay", resp.PaymentURL)
	assert.Equal(t, "JOB_1_FEATURE", resp.TranID)
	assert.Equal(t, 500.0, resp.Amount)
	assert.Equal(t, "BDT", resp.Currency)

	require.Len(t, env.gateway.requests, 1)
	sent := env.gateway.requests[0]
	assert.Equal(t, "http://api.test/api/v1/jobs/payment/success", sent.SuccessURL)
	assert.Equal(t, "http://api.test/api/v1/jobs/payment/fail", sent.FailURL)
	assert.Equal(t, "http://api.test/api/v1/jobs/payment/cancel", sent.CancelURL)
	assert.Equal(t, employer.Email, sent.CustomerEmail)
	assert.Equal(t, "Feature Job: Golang Lead", sent.ProductName)

	record, err := payments.FindByTranID(env.db, resp.TranID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, record.Status)
	assert.Equal(t, job.ID, record.JobID)

	t.Run("retry reuses the record", func(t *testing.T) {
		_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
		require.NoError(t, err)
		var count int64
		require.NoError(t, env.db.Model(&models.FeaturePayment{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("not the owner", func(t *testing.T) {
		seeker := testutil.CreateUser(t, env.db, models.UserRoleSeeker)
		_, err := svc.InitiateFeature(ctx, env.db, callerOf(seeker), job.ID)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("gateway refuses", func(t *testing.T) {
		env.gateway.session = &payment.Session{Status: "FAILED", FailedReason: "bad store", Raw: map[string]interface{}{"status": "FAILED"}}
		defer func() { env.gateway.session = &payment.Session{Status: payment.StatusSuccess, GatewayURL: "https://gateway.test/pay"} }()

		_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
		assertCode(t, err, apperrors.CodePaymentFailed)
	})

	t.Run("gateway unreachable", func(t *testing.T) {
		env.gateway.err = errors.New("dial tcp: timeout")
		defer func() { env.gateway.err = nil }()

		_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
		assertCode(t, err, apperrors.CodeExternalServiceError)
	})

	t.Run("already featured", func(t *testing.T) {
		require.NoError(t, env.db.Model(job).Update("is_featured", true).Error)
		_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), 4040)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestPaymentService_HandleCallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.PaymentService
	payments := repositories.NewPaymentRepository()
	jobs := repositories.NewJobRepository()

	employer := testutil.CreateUser(t, env.db, models.UserRoleEmployer)
	job := testutil.CreateJob(t, env.db, employer.ID, "Promoted")
	tranID := payment.FeatureTranID(job.ID)

	_, err := svc.InitiateFeature(ctx, env.db, callerOf(employer), job.ID)
	require.NoError(t, err)

	t.Run("cancel", func(t *testing.T) {
		url := svc.HandleCallback(ctx, env.db, PaymentOutcomeCancel, tranID)
		assert.Equal(t, "http://app.test/dashboard/jobs/1/?payment_status=canceled", url)

		record, err := payments.FindByTranID(env.db, tranID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCancelled, record.Status)
	})

	t.Run("fail", func(t *testing.T) {
		url := svc.HandleCallback(ctx, env.db, PaymentOutcomeFail, tranID)
		assert.Equal(t, "http://app.test/dashboard/jobs/1/?payment_status=failed", url)
	})

	t.Run("success features the job", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			url := svc.HandleCallback(ctx, env.db, PaymentOutcomeSuccess, tranID)
			assert.Equal(t, "http://app.test/dashboard/jobs/1/?payment_status=success", url)
		}

		stored, err := jobs.FindByID(env.db, job.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsFeatured)

		record, err := payments.FindByTranID(env.db, tranID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, record.Status)
		assert.NotNil(t, record.PaidAt)
	})

	t.Run("late failure does not undo payment", func(t *testing.T) {
		svc.HandleCallback(ctx, env.db, PaymentOutcomeFail, tranID)
		record, err := payments.FindByTranID(env.db, tranID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, record.Status)
	})

	t.Run("malformed transaction ids", func(t *testing.T) {
		assert.Equal(t, "http://app.test/dashboard/jobs/?payment_status=error&tran_id=ORDER+9",
			svc.HandleCallback(ctx, env.db, PaymentOutcomeSuccess, "ORDER 9"))
		assert.Equal(t, "http://app.test/dashboard/jobs/?payment_status=failed",
			svc.HandleCallback(ctx, env.db, PaymentOutcomeFail, ""))
		assert.Equal(t, "http://app.test/dashboard/jobs/?payment_status=canceled",
			svc.HandleCallback(ctx, env.db, PaymentOutcomeCancel, "garbage"))
	})

	t.Run("success for a missing job", func(t *testing.T) {
		assert.Equal(t, "http://app.test/dashboard/jobs/?payment_status=error&tran_id=JOB_77_FEATURE",
			svc.HandleCallback(ctx, env.db, PaymentOutcomeSuccess, "JOB_77_FEATURE"))
	})
}
