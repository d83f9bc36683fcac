package models

import "strings"

type UserRole string
type ApplicationStatus string
type PaymentStatus string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleEmployer UserRole = "employer"
	UserRoleSeeker   UserRole = "seeker"

	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusOffered     ApplicationStatus = "offered"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// roleGroups maps every supported role to the permission group that mirrors it.
var roleGroups = map[UserRole]string{
	UserRoleAdmin:    "Admin",
	UserRoleEmployer: "Employer",
	UserRoleSeeker:   "Job Seeker",
}

// Roles lists the supported roles in a stable order.
func Roles() []UserRole {
	return []UserRole{UserRoleAdmin, UserRoleEmployer, UserRoleSeeker}
}

// ParseUserRole normalizes s and reports whether it names a supported role.
func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleGroups[role]
	return role, ok
}

func (r UserRole) IsValid() bool {
	_, ok := roleGroups[r]
	return ok
}

// GroupName returns the group mirroring r, or "" for an unsupported role.
func (r UserRole) GroupName() string {
	return roleGroups[r]
}

// RoleGroupNames returns every group name managed by role sync.
func RoleGroupNames() []string {
	names := make([]string, 0, len(roleGroups))
	for _, role := range Roles() {
		names = append(names, roleGroups[role])
	}
	return names
}
