package workers

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

const (
	defaultSweepInterval = time.Hour
	defaultPendingTTL    = 24 * time.Hour
)

// PaymentWorker marks feature-payment sessions the gateway never called back
// for as failed, so they stop showing up as pending.
type PaymentWorker struct {
	db          *gorm.DB
	paymentRepo repositories.PaymentRepository
	interval    time.Duration
	pendingTTL  time.Duration
	now         func() time.Time
}

func NewPaymentWorker(db *gorm.DB, paymentRepo repositories.PaymentRepository) *PaymentWorker {
	return &PaymentWorker{
		db:          db,
		paymentRepo: paymentRepo,
		interval:    defaultSweepInterval,
		pendingTTL:  defaultPendingTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the sweep in the background until ctx is cancelled.
func (w *PaymentWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *PaymentWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("payment worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep expires stale pending payments once and reports how many changed.
func (w *PaymentWorker) Sweep(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.pendingTTL)
	expired, err := w.paymentRepo.ExpirePending(w.db.WithContext(ctx), cutoff)
	if err != nil {
		logger.Error("failed to expire pending payments", "error", err)
		return 0
	}
	if expired > 0 {
		logger.Info("expired pending feature payments", "count", expired)
	}
	return expired
}
