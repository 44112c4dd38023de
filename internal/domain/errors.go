package domain

import "alumnet-backend/pkg/apperror"

// Registration and login failure kinds. Each is a single shared instance so
// callers can match with errors.Is; messages mirror what the client sees.
var (
	ErrMissingRequiredField = apperror.BadRequest("All required fields must be filled.")
	ErrPasswordMismatch     = apperror.BadRequest("Passwords do not match.")
	ErrMissingStudentField  = apperror.BadRequest("Student-specific fields are required.")
	ErrMissingAlumniField   = apperror.BadRequest("Alumni-specific fields are required.")
	ErrInvalidUserType      = apperror.BadRequest("Invalid user type.")
	ErrDuplicateAccount     = apperror.BadRequest("User already exists.")

	ErrMissingCredential = apperror.BadRequest("All fields are required.")
	// Same error for "no such user" and "wrong password" so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password.")

	ErrLoginBlocked = apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
)
