package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=5000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}

type ReviewResponse struct {
	ID            uint      `json:"id"`
	JobID         uint      `json:"job"`
	EmployerID    uint      `json:"employer"`
	JobSeekerID   uint      `json:"job_seeker"`
	JobSeekerName string    `json:"job_seeker_name,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews  []*ReviewResponse `json:"results"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func NewReviewResponse(r *models.EmployerReview) *ReviewResponse {
	resp := &ReviewResponse{
		ID:          r.ID,
		JobID:       r.JobID,
		EmployerID:  r.EmployerID,
		JobSeekerID: r.JobSeekerID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.JobSeeker.ID != 0 {
		resp.JobSeekerName = r.JobSeeker.FullName()
	}
	return resp
}
