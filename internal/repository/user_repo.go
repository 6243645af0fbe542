package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
)

// ErrDuplicate is returned by Create when the email or username collides
// with an existing row. The unique indexes on LOWER(email)/LOWER(username)
// are the authoritative uniqueness check; the service-level pre-check is
// only a fast path.
var ErrDuplicate = errors.New("email or username already taken")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = "id, email, username, password_hash, privileges, active, roles, created_at, updated_at"

func scanUser(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.Privilege, &a.Active, &a.Roles, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// FindByID returns the account or nil when absent.
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

// FindByEmailOrUsername matches either field case-insensitively and
// returns the account or nil when absent.
func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($2)
	`, email, username))
}

// FindByEmail returns the account with the given email (case-insensitive)
// or nil when absent. Used by the auth login path.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

// Create inserts the account and fills in the timestamps. A uniqueness
// violation is reported as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, a *models.Account) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, privileges, active, roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, a.ID, a.Email, a.Username, a.PasswordHash, a.Privilege, a.Active, a.Roles).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdatePrivilege sets the privilege level of one account.
func (r *UserRepo) UpdatePrivilege(ctx context.Context, id uuid.UUID, l privilege.Level) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET privileges = $2, updated_at = now() WHERE id = $1
	`, id, l)
	return err
}

// DeleteByID removes the account permanently. No tombstone is kept.
func (r *UserRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
