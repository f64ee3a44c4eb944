package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// CreateInput carries the fields a student supplies when opening an
// application. The owning student is set by the caller from the principal,
// never from the request body.
type CreateInput struct {
	StudentID    string
	UniversityID string
	Type         string
	Deadline     time.Time
	Notes        string
}

// UpdateInput carries the mutable fields of an application.
type UpdateInput struct {
	Type         string
	Status       string
	Deadline     time.Time
	SubmittedAt  *time.Time
	DecisionType string
	Notes        string
}

// Service handles application business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByStudent returns a student's applications, optionally filtered by status.
func (s *Service) ListByStudent(ctx context.Context, studentID, status string) ([]Application, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	return s.repo.ListByStudent(ctx, studentID, status)
}

// Get fetches one application.
func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	return s.repo.Get(ctx, id)
}

// Create opens a new application in NOT_STARTED state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Application, error) {
	if !ValidType(in.Type) {
		return nil, fmt.Errorf("%w: unknown application type %q", httpx.ErrValidation, in.Type)
	}
	if in.StudentID == "" || in.UniversityID == "" {
		return nil, fmt.Errorf("%w: student and university required", httpx.ErrValidation)
	}
	app := &Application{
		ID:           uuid.NewString(),
		StudentID:    in.StudentID,
		UniversityID: in.UniversityID,
		Type:         in.Type,
		Status:       StatusNotStarted,
		Deadline:     in.Deadline,
		Notes:        in.Notes,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Update rewrites an application's mutable fields.
func (s *Service) Update(ctx context.Context, app *Application, in UpdateInput) (*Application, error) {
	if !ValidType(in.Type) {
		return nil, fmt.Errorf("%w: unknown application type %q", httpx.ErrValidation, in.Type)
	}
	if !ValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, in.Status)
	}
	app.Type = in.Type
	app.Status = in.Status
	app.Deadline = in.Deadline
	app.SubmittedAt = in.SubmittedAt
	app.DecisionType = in.DecisionType
	app.Notes = in.Notes
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete removes an application.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
