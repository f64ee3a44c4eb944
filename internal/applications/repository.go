package applications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/horizonapply/horizon/internal/shared"
)

// Repository defines persistence operations for applications.
type Repository interface {
	ListByStudent(ctx context.Context, studentID, status string) ([]Application, error)
	Get(ctx context.Context, id string) (*Application, error)
	Create(ctx context.Context, app *Application) error
	Update(ctx context.Context, app *Application) error
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

const applicationColumns = `id, student_id, university_id, application_type, status, deadline,
	submitted_at, COALESCE(decision_type, ''), COALESCE(notes, ''), created_at, updated_at`

// ListByStudent returns a student's applications ordered by deadline. An
// empty status matches all statuses.
func (r *PGRepository) ListByStudent(ctx context.Context, studentID, status string) ([]Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE student_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY deadline`,
		studentID, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// Get fetches one application by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// Create inserts a new application.
func (r *PGRepository) Create(ctx context.Context, app *Application) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (id, student_id, university_id, application_type, status, deadline, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), now(), now())
		RETURNING created_at, updated_at`,
		app.ID, app.StudentID, app.UniversityID, app.Type, app.Status, app.Deadline, app.Notes,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update rewrites the mutable fields of an application.
func (r *PGRepository) Update(ctx context.Context, app *Application) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET application_type = $2, status = $3, deadline = $4, submitted_at = $5,
			decision_type = NULLIF($6, ''), notes = NULLIF($7, ''), updated_at = now()
		WHERE id = $1`,
		app.ID, app.Type, app.Status, app.Deadline, app.SubmittedAt, app.DecisionType, app.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an application.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	err := row.Scan(
		&app.ID,
		&app.StudentID,
		&app.UniversityID,
		&app.Type,
		&app.Status,
		&app.Deadline,
		&app.SubmittedAt,
		&app.DecisionType,
		&app.Notes,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

var _ Repository = (*PGRepository)(nil)
