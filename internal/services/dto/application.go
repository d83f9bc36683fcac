package dto

import (
	"mime/multipart"
	"time"

	"jobboard_backend/internal/models"
)

// CreateApplicationRequest binds JSON or multipart bodies. Files are attached by the handler.
type CreateApplicationRequest struct {
	JobID         uint   `json:"job_id" form:"job_id"`
	PortfolioLink string `json:"portfolio_link" form:"portfolio_link" validate:"omitempty,url"`

	Resume      *multipart.FileHeader `json:"-" form:"-"`
	CoverLetter *multipart.FileHeader `json:"-" form:"-"`
}

type UpdateApplicationRequest struct {
	PortfolioLink *string `json:"portfolio_link" form:"portfolio_link" validate:"omitempty,url"`

	Resume      *multipart.FileHeader `json:"-" form:"-"`
	CoverLetter *multipart.FileHeader `json:"-" form:"-"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

// ApplicationListQuery carries the optional listing filters. The double
// underscore names match the public query string.
type ApplicationListQuery struct {
	JobEmployer *uint  `form:"job__employer"`
	Applicant   *uint  `form:"applicant"`
	Status      string `form:"status" validate:"omitempty,is-application-status"`
}

type ApplicationResponse struct {
	ID            uint                     `json:"id"`
	JobID         uint                     `json:"job"`
	JobTitle      string                   `json:"job_title,omitempty"`
	EmployerID    uint                     `json:"employer_id,omitempty"`
	ApplicantID   uint                     `json:"applicant"`
	Resume        string                   `json:"resume"`
	CoverLetter   string                   `json:"cover_letter"`
	PortfolioLink string                   `json:"portfolio_link"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"results"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
}

func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:            a.ID,
		JobID:         a.JobID,
		JobTitle:      a.Job.Title,
		EmployerID:    a.Job.EmployerID,
		ApplicantID:   a.ApplicantID,
		Resume:        a.Resume,
		CoverLetter:   a.CoverLetter,
		PortfolioLink: a.PortfolioLink,
		Status:        a.Status,
		AppliedAt:     a.AppliedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
