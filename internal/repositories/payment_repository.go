package repositories

import (
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	UpsertPending(db *gorm.DB, payment *models.FeaturePayment) error
	FindByTranID(db *gorm.DB, tranID string) (*models.FeaturePayment, error)
	SetStatus(db *gorm.DB, tranID string, status models.PaymentStatus, paidAt *time.Time) (int64, error)
	ExpirePending(db *gorm.DB, before time.Time) (int64, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

// UpsertPending records a new gateway session, resetting a previous attempt
// with the same transaction id back to pending.
func (r *PaymentRepositoryImpl) UpsertPending(db *gorm.DB, payment *models.FeaturePayment) error {
	payment.Status = models.PaymentStatusPending
	payment.PaidAt = nil
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tran_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"job_id", "employer_id", "amount", "currency", "status", "paid_at", "updated_at"}),
	}).Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByTranID(db *gorm.DB, tranID string) (*models.FeaturePayment, error) {
	var payment models.FeaturePayment
	if err := db.First(&payment, "tran_id = ?", tranID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// SetStatus never downgrades a paid payment.
func (r *PaymentRepositoryImpl) SetStatus(db *gorm.DB, tranID string, status models.PaymentStatus, paidAt *time.Time) (int64, error) {
	result := db.Model(&models.FeaturePayment{}).
		Where("tran_id = ? AND status <> ?", tranID, models.PaymentStatusPaid).
		Updates(map[string]interface{}{"status": status, "paid_at": paidAt})
	return result.RowsAffected, result.Error
}

// ExpirePending fails pending sessions last touched before the cutoff.
func (r *PaymentRepositoryImpl) ExpirePending(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Model(&models.FeaturePayment{}).
		Where("status = ? AND updated_at < ?", models.PaymentStatusPending, before).
		Update("status", models.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}
