package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/horizonapply/horizon/internal/shared"
)

// Repository defines persistence operations for the identity store.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const identityColumns = `id, email, password_hash, role, COALESCE(student_id::text, ''), is_active, created_at, updated_at`

// FindByID fetches an identity by its primary key.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Identity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM users WHERE id = $1`, id)
	return scanIdentity(row)
}

// FindByEmail fetches an identity by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM users WHERE email = $1`, email)
	return scanIdentity(row)
}

func scanIdentity(row pgx.Row) (*Identity, error) {
	var identity Identity
	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Role,
		&identity.LinkedStudentID,
		&identity.IsActive,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

var _ Repository = (*PGRepository)(nil)
