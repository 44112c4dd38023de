package postgres

import (
	"context"
	"errors"

	"alumnet-backend/internal/domain"
	"alumnet-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users
		(id, full_name, email, password, user_type,
		 branch, roll_number, passout_year,
		 company, skills, experience, phone_number, college_name,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FullName, user.Email, user.Password, user.UserType,
		user.Branch, user.RollNumber, user.PassoutYear,
		user.Company, user.Skills, user.Experience, user.PhoneNumber, user.CollegeName,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		// The unique email constraint closes the lookup/insert race: a
		// concurrent registration that won loses nothing but this insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateAccount
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, full_name, email, password, user_type,
		branch, roll_number, passout_year,
		company, skills, experience, phone_number, college_name,
		created_at, updated_at
		FROM users WHERE email = $1`
	var user domain.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.FullName, &user.Email, &user.Password, &user.UserType,
		&user.Branch, &user.RollNumber, &user.PassoutYear,
		&user.Company, &user.Skills, &user.Experience, &user.PhoneNumber, &user.CollegeName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
