package students

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/horizonapply/horizon/internal/platform/db"
	"github.com/horizonapply/horizon/internal/shared"
)

// Repository defines persistence operations for student profiles.
type Repository interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `id, name, email, graduation_year, gpa, sat_score, act_score,
	target_countries, intended_majors, created_at, updated_at`

// Get fetches a profile by student ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM students WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.GraduationYear, &p.GPA, &p.SATScore, &p.ACTScore,
		&p.TargetCountries, &p.IntendedMajors, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update rewrites the profile and mirrors the email onto the linked user
// account in the same transaction.
func (r *PGRepository) Update(ctx context.Context, profile *Profile) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE students
			SET name = $2, email = $3, graduation_year = $4, gpa = $5, sat_score = $6,
				act_score = $7, target_countries = $8, intended_majors = $9, updated_at = now()
			WHERE id = $1`,
			profile.ID, profile.Name, profile.Email, profile.GraduationYear, profile.GPA,
			profile.SATScore, profile.ACTScore, profile.TargetCountries, profile.IntendedMajors,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`UPDATE users SET email = $2, updated_at = now() WHERE student_id = $1 AND role = 'STUDENT'`,
			profile.ID, profile.Email,
		)
		return err
	})
}

var _ Repository = (*PGRepository)(nil)
