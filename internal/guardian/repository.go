package guardian

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/horizonapply/horizon/internal/shared"
)

// Repository defines persistence operations for guardianship links.
type Repository interface {
	Exists(ctx context.Context, parentID, studentID string) (bool, error)
	ListByParent(ctx context.Context, parentID string) ([]Link, error)
	Create(ctx context.Context, parentID, studentID string) (Link, error)
	Delete(ctx context.Context, parentID, studentID string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Exists reports whether the guardianship link is recorded.
func (r *PGRepository) Exists(ctx context.Context, parentID, studentID string) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parent_students WHERE parent_id = $1 AND student_id = $2)`,
		parentID, studentID,
	).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListByParent returns the parent's links with student names attached.
func (r *PGRepository) ListByParent(ctx context.Context, parentID string) ([]Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ps.parent_id, ps.student_id, COALESCE(s.name, ''), ps.created_at
		FROM parent_students ps
		LEFT JOIN students s ON s.id = ps.student_id
		WHERE ps.parent_id = $1
		ORDER BY ps.created_at`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.ParentID, &link.StudentID, &link.StudentName, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Create inserts a new link. Returns shared.ErrDuplicate when it already exists.
func (r *PGRepository) Create(ctx context.Context, parentID, studentID string) (Link, error) {
	var link Link
	err := r.pool.QueryRow(ctx, `
		INSERT INTO parent_students (parent_id, student_id, created_at)
		VALUES ($1, $2, now())
		RETURNING parent_id, student_id, created_at`,
		parentID, studentID,
	).Scan(&link.ParentID, &link.StudentID, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Link{}, shared.ErrDuplicate
		}
		return Link{}, err
	}
	return link, nil
}

// Delete removes a link. Returns shared.ErrNotFound when nothing was deleted.
func (r *PGRepository) Delete(ctx context.Context, parentID, studentID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM parent_students WHERE parent_id = $1 AND student_id = $2`,
		parentID, studentID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
