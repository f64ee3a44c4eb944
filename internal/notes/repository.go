package notes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/horizonapply/horizon/internal/shared"
)

// Repository defines persistence operations for parent notes.
type Repository interface {
	ListByParent(ctx context.Context, parentID string) ([]Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, note *Note) error
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const noteColumns = `id, parent_id, application_id, content, created_at, updated_at`

// ListByParent returns a parent's notes, newest first.
func (r *PGRepository) ListByParent(ctx context.Context, parentID string) ([]Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM parent_notes WHERE parent_id = $1 ORDER BY created_at DESC`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Note
	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.ParentID, &note.ApplicationID, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, note)
	}
	return list, rows.Err()
}

// Get fetches one note by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Note, error) {
	var note Note
	err := r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM parent_notes WHERE id = $1`, id).
		Scan(&note.ID, &note.ParentID, &note.ApplicationID, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// Create inserts a new note.
func (r *PGRepository) Create(ctx context.Context, note *Note) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO parent_notes (id, parent_id, application_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`,
		note.ID, note.ParentID, note.ApplicationID, note.Content,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
}

// Update rewrites a note's content.
func (r *PGRepository) Update(ctx context.Context, note *Note) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE parent_notes SET content = $2, updated_at = now() WHERE id = $1`,
		note.ID, note.Content,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a note.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM parent_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
