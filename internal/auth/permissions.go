package auth

import "jobboard_backend/internal/models"

// Permission names checked by the services.
const (
	PermJobsWrite          = "jobs:write"
	PermJobsModerate       = "jobs:moderate" // is_active / is_featured, any owner
	PermApplicationsCreate = "applications:create"
	PermApplicationsReview = "applications:review"
	PermApplicationsAll    = "applications:all"
	PermReviewsWrite       = "reviews:write"
	PermCategoriesWrite    = "categories:write"
	PermUsersAdmin         = "users:admin"
)

// Permissions is the role to permission table.
var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermJobsWrite,
		PermJobsModerate,
		PermApplicationsReview,
		PermApplicationsAll,
		PermCategoriesWrite,
		PermUsersAdmin,
	},
	models.UserRoleEmployer: {
		PermJobsWrite,
		PermApplicationsReview,
	},
	models.UserRoleSeeker: {
		PermApplicationsCreate,
		PermReviewsWrite,
	},
}

// HasPermission reports whether role grants permission. Unknown roles have none.
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func IsAdmin(role models.UserRole) bool {
	return role == models.UserRoleAdmin
}
