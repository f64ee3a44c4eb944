package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// Service handles parent note business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByParent returns a parent's notes.
func (s *Service) ListByParent(ctx context.Context, parentID string) ([]Note, error) {
	return s.repo.ListByParent(ctx, parentID)
}

// Get fetches one note.
func (s *Service) Get(ctx context.Context, id string) (*Note, error) {
	return s.repo.Get(ctx, id)
}

// Create records a new note owned by parentID.
func (s *Service) Create(ctx context.Context, parentID, applicationID, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content required", httpx.ErrValidation)
	}
	note := &Note{
		ID:            uuid.NewString(),
		ParentID:      parentID,
		ApplicationID: applicationID,
		Content:       content,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Update rewrites a note's content.
func (s *Service) Update(ctx context.Context, note *Note, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content required", httpx.ErrValidation)
	}
	note.Content = content
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
