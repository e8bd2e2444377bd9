package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// UserRepository handles account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, reset_otp, reset_otp_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var (
		otp       *string
		otpExpiry *time.Time
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&otp, &otpExpiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if otp != nil && otpExpiry != nil {
		u.ResetChallenge = &model.OtpChallenge{Code: *otp, ExpiresAt: *otpExpiry}
	}
	return u, nil
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves an account by its unique (lower-cased) email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isPgCode(err, pgUniqueViolation) {
		return ErrDuplicateEmail
	}
	return err
}

// Save writes the mutable parts of the aggregate, including the reset
// challenge, in a single UPDATE.
func (r *UserRepository) Save(ctx context.Context, u *model.User) error {
	var (
		otp       *string
		otpExpiry *time.Time
	)
	if c := u.ResetChallenge; c != nil {
		otp, otpExpiry = &c.Code, &c.ExpiresAt
	}
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $1, role = $2, password_hash = $3,
		     reset_otp = $4, reset_otp_expires_at = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING updated_at`,
		u.Name, u.Role, u.PasswordHash, otp, otpExpiry, u.ID,
	).Scan(&u.UpdatedAt)
	return notFound(err)
}

// SetChallenge replaces only the reset challenge columns; nil clears them.
// Other fields are untouched so a concurrent password change survives.
func (r *UserRepository) SetChallenge(ctx context.Context, id uuid.UUID, c *model.OtpChallenge) error {
	var (
		otp       *string
		otpExpiry *time.Time
	)
	if c != nil {
		otp, otpExpiry = &c.Code, &c.ExpiresAt
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET reset_otp = $1, reset_otp_expires_at = $2, updated_at = NOW()
		 WHERE id = $3`,
		otp, otpExpiry, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompletePasswordReset stores the new hash and clears the challenge, but only
// while code is still the live challenge. ErrNotFound means it was replaced or
// already consumed.
func (r *UserRepository) CompletePasswordReset(ctx context.Context, id uuid.UUID, code, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, reset_otp = NULL, reset_otp_expires_at = NULL, updated_at = NOW()
		 WHERE id = $2 AND reset_otp = $3`,
		passwordHash, id, code,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
