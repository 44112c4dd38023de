package domain

import (
	"context"
	"time"
)

// UserType discriminates which optional profile fields are mandatory.
type UserType string

const (
	UserTypeStudent UserType = "Student"
	UserTypeAlumni  UserType = "Alumni"
)

// User is a registered alumni-network account. Optional fields are pointers:
// a field irrelevant to the user's type is nil and stored as SQL NULL, never
// as an empty string. PassoutYear is required for both types and therefore
// always set on a persisted record.
type User struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Password string   `json:"-"` // bcrypt hash, never serialized
	UserType UserType `json:"user_type"`

	// Student-only
	Branch     *string `json:"branch,omitempty"`
	RollNumber *string `json:"roll_number,omitempty"`

	// Required for both types
	PassoutYear *string `json:"passout_year,omitempty"`

	// Alumni-only
	Company     *string `json:"company,omitempty"`
	Skills      *string `json:"skills,omitempty"`
	Experience  *string `json:"experience,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	CollegeName *string `json:"college_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterInput is the registration payload after form normalization.
// PassoutYear, PhoneNumber and CollegeName may arrive as repeated form
// fields; by the time they reach the usecase they have been collapsed to a
// single scalar or nil (see pkg/form).
type RegisterInput struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	UserType        string `validate:"required"`

	Branch     string
	RollNumber string

	Company    string
	Skills     string
	Experience string

	PassoutYear *string
	PhoneNumber *string
	CollegeName *string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// GetByEmail returns (nil, nil) when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, in *RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
}
