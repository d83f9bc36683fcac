package models

type EmployerReview struct {
	BaseModel
	JobID       uint   `gorm:"not null;uniqueIndex:idx_review_job_seeker"`
	EmployerID  uint   `gorm:"not null;index"`
	JobSeekerID uint   `gorm:"not null;uniqueIndex:idx_review_job_seeker"`
	Rating      int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment     string `gorm:"type:text"`

	// Relations
	Job       Job  `gorm:"foreignKey:JobID"`
	Employer  User `gorm:"foreignKey:EmployerID"`
	JobSeeker User `gorm:"foreignKey:JobSeekerID"`
}
