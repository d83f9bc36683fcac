package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;index"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Address      string
	PhoneNumber  string `gorm:"size:20"`
	Bio          string
	Skills       string
	Education    string
	Experience   string
	LinkedinURL  string
	GithubURL    string
	PortfolioURL string
	DateOfBirth  *time.Time
	IsVerified   bool `gorm:"default:false"`

	// Relations
	Groups []Group `gorm:"many2many:user_groups"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Group is a named permission group. Role groups are kept in sync with User.Role.
type Group struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:150;not null"`
}

func (Group) TableName() string {
	return "auth_groups"
}
