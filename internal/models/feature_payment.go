package models

import "time"

// FeaturePayment tracks a gateway session that promotes a job to featured.
type FeaturePayment struct {
	BaseModel
	TranID     string        `gorm:"uniqueIndex;size:64;not null"`
	JobID      uint          `gorm:"not null;index"`
	EmployerID uint          `gorm:"not null;index"`
	Amount     float64       `gorm:"not null"`
	Currency   string        `gorm:"size:8;not null"`
	Status     PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidAt     *time.Time
}
