package usecase

import (
	"context"
	"time"

	"alumnet-backend/internal/domain"
	"alumnet-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	userRepo   domain.UserRepository
	validate   *validator.Validate
	bcryptCost int
}

func NewAuthUsecase(userRepo domain.UserRepository, validate *validator.Validate, bcryptCost int) domain.AuthUsecase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authUsecase{userRepo: userRepo, validate: validate, bcryptCost: bcryptCost}
}

// Register validates a normalized registration payload and persists a new
// account. Checks run in a fixed order and short-circuit on the first
// failure: universal required fields, password confirmation, then the fields
// mandated by the user type. Only fields relevant to the type are stored.
func (u *authUsecase) Register(ctx context.Context, in *domain.RegisterInput) (*domain.User, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, domain.ErrMissingRequiredField
	}

	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	userType := domain.UserType(in.UserType)
	switch userType {
	case domain.UserTypeStudent:
		if in.Branch == "" || in.RollNumber == "" || in.PassoutYear == nil {
			return nil, domain.ErrMissingStudentField
		}
	case domain.UserTypeAlumni:
		if in.PassoutYear == nil || in.Company == "" || in.Skills == "" ||
			in.Experience == "" || in.PhoneNumber == nil || in.CollegeName == nil {
			return nil, domain.ErrMissingAlumniField
		}
	default:
		return nil, domain.ErrInvalidUserType
	}

	// Fast-path duplicate check. The insert below is still backstopped by the
	// unique email constraint, so two concurrent registrations cannot both
	// slip through this read.
	existing, err := u.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:          uuid.NewString(),
		FullName:    in.FullName,
		Email:       in.Email,
		Password:    string(hash),
		UserType:    userType,
		PassoutYear: in.PassoutYear,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch userType {
	case domain.UserTypeStudent:
		user.Branch = strPtr(in.Branch)
		user.RollNumber = strPtr(in.RollNumber)
	case domain.UserTypeAlumni:
		user.Company = strPtr(in.Company)
		user.Skills = strPtr(in.Skills)
		user.Experience = strPtr(in.Experience)
		user.PhoneNumber = in.PhoneNumber
		user.CollegeName = in.CollegeName
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the claimed credential against the stored bcrypt hash.
// Unknown email and wrong password produce the same error.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredential
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func strPtr(s string) *string {
	return &s
}
