package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type RecentJob struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RecentApplication struct {
	ID          uint                     `json:"id"`
	JobID       uint                     `json:"job_id"`
	JobTitle    string                   `json:"job_title,omitempty"`
	ApplicantID uint                     `json:"applicant_id"`
	AppliedAt   time.Time                `json:"applied_at"`
	Status      models.ApplicationStatus `json:"status"`
}

type AdminDashboard struct {
	TotalUsers         int64                `json:"total_users"`
	TotalJobs          int64                `json:"total_jobs"`
	TotalApplications  int64                `json:"total_applications"`
	RecentJobs         []*RecentJob         `json:"recent_jobs"`
	RecentApplications []*RecentApplication `json:"recent_applications"`
}

type TopJob struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	ViewsCount        int64  `json:"views_count"`
	ApplicationsCount int64  `json:"applications_count"`
}

type EmployerDashboard struct {
	EmployerID        uint      `json:"employer_id"`
	JobsPosted        int64     `json:"jobs_posted"`
	TotalApplications int64     `json:"total_applications"`
	FeaturedJobs      int64     `json:"featured_jobs"`
	TopJobs           []*TopJob `json:"top_jobs"`
}

type RecommendedJob struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
}

type SeekerDashboard struct {
	SeekerID          uint                 `json:"seeker_id"`
	ApplicationsCount int64                `json:"applications_count"`
	Interviews        int64                `json:"interviews"`
	Offers            int64                `json:"offers"`
	RecentlyApplied   []*RecentApplication `json:"recently_applied"`
	RecommendedJobs   []*RecommendedJob    `json:"recommended_jobs"`
}

type StatsQuery struct {
	Days *int `form:"days" validate:"omitempty,min=1,max=365"`
}

type DashboardStats struct {
	Days                int   `json:"days"`
	JobsCreated         int64 `json:"jobs_created"`
	ApplicationsCreated int64 `json:"applications_created"`
}

func NewRecentApplication(a *models.Application) *RecentApplication {
	return &RecentApplication{
		ID:          a.ID,
		JobID:       a.JobID,
		JobTitle:    a.Job.Title,
		ApplicantID: a.ApplicantID,
		AppliedAt:   a.AppliedAt,
		Status:      a.Status,
	}
}
