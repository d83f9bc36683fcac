package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName    *string    `json:"first_name" validate:"omitempty,max=150"`
	LastName     *string    `json:"last_name" validate:"omitempty,max=150"`
	Address      *string    `json:"address"`
	PhoneNumber  *string    `json:"phone_number" validate:"omitempty,max=20"`
	Bio          *string    `json:"bio"`
	Skills       *string    `json:"skills"`
	Education    *string    `json:"education"`
	Experience   *string    `json:"experience"`
	LinkedinURL  *string    `json:"linkedin_url" validate:"omitempty,url"`
	GithubURL    *string    `json:"github_url" validate:"omitempty,url"`
	PortfolioURL *string    `json:"portfolio_url" validate:"omitempty,url"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Role         *string    `json:"role" validate:"omitempty,is-user-role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type UserListQuery struct {
	Role   string `form:"role" validate:"omitempty,is-user-role"`
	Search string `form:"search"`
}

type UserResponse struct {
	ID           uint            `json:"id"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	FullName     string          `json:"full_name"`
	Address      string          `json:"address"`
	PhoneNumber  string          `json:"phone_number"`
	Bio          string          `json:"bio"`
	Skills       string          `json:"skills"`
	Education    string          `json:"education"`
	Experience   string          `json:"experience"`
	LinkedinURL  string          `json:"linkedin_url"`
	GithubURL    string          `json:"github_url"`
	PortfolioURL string          `json:"portfolio_url"`
	DateOfBirth  *time.Time      `json:"date_of_birth,omitempty"`
	IsVerified   bool            `json:"is_verified"`
	Groups       []string        `json:"groups"`
	DateJoined   time.Time       `json:"date_joined"`
}

type UserListResponse struct {
	Users    []*UserResponse `json:"results"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func NewUserResponse(u *models.User) *UserResponse {
	groups := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		groups = append(groups, g.Name)
	}
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Address:      u.Address,
		PhoneNumber:  u.PhoneNumber,
		Bio:          u.Bio,
		Skills:       u.Skills,
		Education:    u.Education,
		Experience:   u.Experience,
		LinkedinURL:  u.LinkedinURL,
		GithubURL:    u.GithubURL,
		PortfolioURL: u.PortfolioURL,
		DateOfBirth:  u.DateOfBirth,
		IsVerified:   u.IsVerified,
		Groups:       groups,
		DateJoined:   u.CreatedAt,
	}
}
