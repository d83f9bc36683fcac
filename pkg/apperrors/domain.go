package apperrors

import (
	"net/http"
)

/*
Factories for the business-rule errors shared by the job board services.
Each call returns a fresh value so callers may attach details safely.
*/

// ErrNotFoundIn converts a repository miss into a 404 for the domain.
func ErrNotFoundIn(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict is the generic 409.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrPermissionDenied is returned when the caller's role or ownership forbids the action.
func ErrPermissionDenied(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

// ErrInvalidTransition is returned when a status change is not allowed from the current status.
func ErrInvalidTransition(domain, message string) *AppError {
	return New(CodeInvalidTransition, domain, message, http.StatusBadRequest)
}

// ErrInvalidRole is returned for a role outside the supported set.
func ErrInvalidRole(role string) *AppError {
	return New(CodeInvalidRole, "user", "Invalid role", http.StatusBadRequest).
		WithDetails(map[string]string{"role": role})
}

// ErrPaymentFailed is returned when the gateway refuses to open a session.
func ErrPaymentFailed(details interface{}) *AppError {
	return New(CodePaymentFailed, "payment", "Payment initiation failed", http.StatusPaymentRequired).
		WithDetails(details)
}

// ErrExternalService wraps a transport failure talking to a third party.
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// --- auth ---

func ErrEmailAlreadyExists() *AppError {
	return New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)
}

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)
}
