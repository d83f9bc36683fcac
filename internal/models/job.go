package models

type JobCategory struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string
}

type Job struct {
	BaseModel
	EmployerID      uint   `gorm:"not null;index"`
	Title           string `gorm:"size:255;not null"`
	CompanyName     string `gorm:"size:255"`
	Description     string `gorm:"type:text"`
	Requirements    string `gorm:"type:text"`
	Location        string `gorm:"size:255"`
	CategoryID      *uint  `gorm:"index"`
	EmploymentType  string `gorm:"size:50"`
	ExperienceLevel string `gorm:"size:50"`
	RemoteOption    bool   `gorm:"default:false"`
	Salary          *float64
	IsFeatured      bool  `gorm:"default:false;index"`
	IsActive        bool  `gorm:"not null;index"`
	ViewsCount      int64 `gorm:"default:0"`

	// Relations
	Employer User         `gorm:"foreignKey:EmployerID"`
	Category *JobCategory `gorm:"foreignKey:CategoryID"`
}
