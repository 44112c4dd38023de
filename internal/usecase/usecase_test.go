package usecase_test

import (
	"context"
	"testing"

	"alumnet-backend/internal/domain"
	"alumnet-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthUC(repo domain.UserRepository) domain.AuthUsecase {
	return usecase.NewAuthUsecase(repo, validator.New(), bcrypt.MinCost)
}

func strPtr(s string) *string { return &s }

func studentInput() *domain.RegisterInput {
	return &domain.RegisterInput{
		FullName:        "Test Student",
		Email:           "student@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		UserType:        "Student",
		Branch:          "CSE",
		RollNumber:      "42",
		PassoutYear:     strPtr("2025"),
	}
}

func alumniInput() *domain.RegisterInput {
	return &domain.RegisterInput{
		FullName:        "Test Alumni",
		Email:           "alumni@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		UserType:        "Alumni",
		Company:         "Acme",
		Skills:          "Go",
		Experience:      "5 years",
		PassoutYear:     strPtr("2020"),
		PhoneNumber:     strPtr("9999999999"),
		CollegeName:     strPtr("ABC"),
	}
}

func TestRegisterStudent(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := newAuthUC(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "student@example.com").Return(nil, nil)

	var created *domain.User
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	})

	user, err := uc.Register(ctx, studentInput())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, user, created)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.UserTypeStudent, user.UserType)
	require.NotNil(t, user.Branch)
	assert.Equal(t, "CSE", *user.Branch)
	require.NotNil(t, user.RollNumber)
	assert.Equal(t, "42", *user.RollNumber)
	require.NotNil(t, user.PassoutYear)
	assert.Equal(t, "2025", *user.PassoutYear)

	// Alumni fields stay absent for a student
	assert.Nil(t, user.Company)
	assert.Nil(t, user.Skills)
	assert.Nil(t, user.Experience)
	assert.Nil(t, user.PhoneNumber)
	assert.Nil(t, user.CollegeName)

	// Stored password is a hash of the supplied one
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))

	mockRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRegisterAlumni(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := newAuthUC(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "alumni@example.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := uc.Register(ctx, alumniInput())
	require.NoError(t, err)

	assert.Equal(t, domain.UserTypeAlumni, user.UserType)
	require.NotNil(t, user.PassoutYear)
	assert.Equal(t, "2020", *user.PassoutYear)
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "9999999999", *user.PhoneNumber)
	require.NotNil(t, user.CollegeName)
	assert.Equal(t, "ABC", *user.CollegeName)

	// Student fields stay absent for an alumnus
	assert.Nil(t, user.Branch)
	assert.Nil(t, user.RollNumber)
}

func TestRegisterValidationOrder(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := newAuthUC(mockRepo)
	ctx := context.Background()

	t.Run("missing universal field", func(t *testing.T) {
		in := studentInput()
		in.Email = ""
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	})

	t.Run("password mismatch", func(t *testing.T) {
		in := studentInput()
		in.ConfirmPassword = "different"
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	})

	t.Run("mismatch beats missing type fields", func(t *testing.T) {
		in := studentInput()
		in.ConfirmPassword = "different"
		in.Branch = ""
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	})

	t.Run("missing student field", func(t *testing.T) {
		in := studentInput()
		in.RollNumber = ""
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrMissingStudentField)
	})

	t.Run("missing normalized passout year", func(t *testing.T) {
		in := studentInput()
		in.PassoutYear = nil
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrMissingStudentField)
	})

	t.Run("missing alumni field", func(t *testing.T) {
		in := alumniInput()
		in.PhoneNumber = nil
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrMissingAlumniField)
	})

	t.Run("unknown user type", func(t *testing.T) {
		in := studentInput()
		in.UserType = "Faculty"
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidUserType)
	})

	// No write may happen on any validation failure
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing account found by lookup", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUC(mockRepo)

		existing := &domain.User{ID: "existing", Email: "student@example.com"}
		mockRepo.On("GetByEmail", ctx, "student@example.com").Return(existing, nil)

		_, err := uc.Register(ctx, studentInput())
		assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("store conflict on insert maps to duplicate", func(t *testing.T) {
		// Two concurrent registrations can both pass the lookup; the losing
		// insert surfaces as the same duplicate error.
		mockRepo := new(MockUserRepo)
		uc := newAuthUC(mockRepo)

		mockRepo.On("GetByEmail", ctx, "student@example.com").Return(nil, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicateAccount)

		_, err := uc.Register(ctx, studentInput())
		assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &domain.User{
		ID:       "user1",
		Email:    "student@example.com",
		Password: string(hash),
		UserType: domain.UserTypeStudent,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUC(mockRepo)
		mockRepo.On("GetByEmail", ctx, "student@example.com").Return(stored, nil)

		user, err := uc.Login(ctx, "student@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUC(mockRepo)
		mockRepo.On("GetByEmail", ctx, "student@example.com").Return(stored, nil)
		mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, wrongPass := uc.Login(ctx, "student@example.com", "wrong")
		_, unknown := uc.Login(ctx, "nobody@example.com", "secret123")

		assert.ErrorIs(t, wrongPass, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
		assert.Equal(t, wrongPass, unknown)
	})

	t.Run("missing credential", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUC(mockRepo)

		_, err := uc.Login(ctx, "", "secret123")
		assert.ErrorIs(t, err, domain.ErrMissingCredential)

		_, err = uc.Login(ctx, "student@example.com", "")
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
		mockRepo.AssertNotCalled(t, "GetByEmail")
	})
}
