package models

import "time"

type Application struct {
	ID            uint              `gorm:"primaryKey"`
	JobID         uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant"`
	ApplicantID   uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant;index"`
	Resume        string
	CoverLetter   string
	PortfolioLink string
	Status        ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	AppliedAt     time.Time         `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime"`

	// Relations
	Job       Job  `gorm:"foreignKey:JobID"`
	Applicant User `gorm:"foreignKey:ApplicantID"`
}

// statusRank orders the forward ladder. Statuses missing here are off-ladder.
var statusRank = map[ApplicationStatus]int{
	ApplicationStatusPending:     0,
	ApplicationStatusReviewed:    1,
	ApplicationStatusInterviewed: 2,
	ApplicationStatusOffered:     3,
	ApplicationStatusAccepted:    4,
}

var terminalStatuses = map[ApplicationStatus]bool{
	ApplicationStatusAccepted:  true,
	ApplicationStatusRejected:  true,
	ApplicationStatusWithdrawn: true,
}

func (s ApplicationStatus) IsValid() bool {
	_, onLadder := statusRank[s]
	return onLadder || terminalStatuses[s]
}

// IsTerminal reports whether no further status change is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// CanReviewTo reports whether an employer or admin may move an application from s to next.
// Withdrawal is not a review decision and is never allowed here.
func (s ApplicationStatus) CanReviewTo(next ApplicationStatus) bool {
	if s.IsTerminal() || !s.IsValid() {
		return false
	}
	if next == ApplicationStatusRejected {
		return true
	}
	nextRank, ok := statusRank[next]
	return ok && nextRank > statusRank[s]
}

// CanWithdraw reports whether the applicant may still withdraw.
func (s ApplicationStatus) CanWithdraw() bool {
	return s.IsValid() && !s.IsTerminal()
}
