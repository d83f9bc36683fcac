package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,max=255"`
	CompanyName     string   `json:"company_name" validate:"max=255"`
	Description     string   `json:"description" validate:"required"`
	Requirements    string   `json:"requirements"`
	Location        string   `json:"location" validate:"max=255"`
	CategoryID      *uint    `json:"category_id"`
	EmploymentType  string   `json:"employment_type" validate:"omitempty,max=50"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,max=50"`
	RemoteOption    bool     `json:"remote_option"`
	Salary          *float64 `json:"salary" validate:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active"`
	IsFeatured      *bool    `json:"is_featured"`
}

type UpdateJobRequest struct {
	Title           *string  `json:"title" validate:"omitempty,max=255"`
	CompanyName     *string  `json:"company_name" validate:"omitempty,max=255"`
	Description     *string  `json:"description"`
	Requirements    *string  `json:"requirements"`
	Location        *string  `json:"location" validate:"omitempty,max=255"`
	CategoryID      *uint    `json:"category_id"`
	EmploymentType  *string  `json:"employment_type" validate:"omitempty,max=50"`
	ExperienceLevel *string  `json:"experience_level" validate:"omitempty,max=50"`
	RemoteOption    *bool    `json:"remote_option"`
	Salary          *float64 `json:"salary" validate:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active"`
	IsFeatured      *bool    `json:"is_featured"`
}

// JobListQuery binds the listing query string.
type JobListQuery struct {
	CategoryID   *uint    `form:"category_id"`
	EmployerID   *uint    `form:"employer_id"`
	SalaryGT     *float64 `form:"salary__gt"`
	SalaryLT     *float64 `form:"salary__lt"`
	Search       string   `form:"search"`
	Ordering     string   `form:"ordering" validate:"omitempty,is-ordering"`
	NoPagination bool     `form:"no_pagination"`
}

type JobResponse struct {
	ID              uint      `json:"id"`
	EmployerID      uint      `json:"employer"`
	Title           string    `json:"title"`
	CompanyName     string    `json:"company_name"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	Location        string    `json:"location"`
	CategoryID      *uint     `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	EmploymentType  string    `json:"employment_type"`
	ExperienceLevel string    `json:"experience_level"`
	RemoteOption    bool      `json:"remote_option"`
	Salary          *float64  `json:"salary"`
	IsFeatured      bool      `json:"is_featured"`
	IsActive        bool      `json:"is_active"`
	ViewsCount      int64     `json:"views_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type JobListResponse struct {
	Jobs     []*JobResponse `json:"results"`
	Total    int64          `json:"total"`
	Page     int            `json:"page,omitempty"`
	PageSize int            `json:"page_size,omitempty"`
}

func NewJobResponse(j *models.Job) *JobResponse {
	resp := &JobResponse{
		ID:              j.ID,
		EmployerID:      j.EmployerID,
		Title:           j.Title,
		CompanyName:     j.CompanyName,
		Description:     j.Description,
		Requirements:    j.Requirements,
		Location:        j.Location,
		CategoryID:      j.CategoryID,
		EmploymentType:  j.EmploymentType,
		ExperienceLevel: j.ExperienceLevel,
		RemoteOption:    j.RemoteOption,
		Salary:          j.Salary,
		IsFeatured:      j.IsFeatured,
		IsActive:        j.IsActive,
		ViewsCount:      j.ViewsCount,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
	if j.Category != nil {
		resp.CategoryName = j.Category.Name
	}
	return resp
}

// Categories

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JobCount    int64  `json:"job_count"`
}

// Applied-state checks

type HasAppliedResponse struct {
	HasApplied bool `json:"has_applied"`
}

type CanReviewResponse struct {
	CanReview bool `json:"can_review"`
}
