package guardian

import (
	"context"
	"errors"
	"log/slog"
)

// Invalidator enqueues cache invalidation for a changed link so every worker
// and web node drops its cached answer. Implemented by the jobs package.
type Invalidator interface {
	EnqueueInvalidate(ctx context.Context, parentID, studentID string) error
}

// Service answers the guardianship predicate and manages link records. It
// implements rbac.GuardianChecker.
type Service struct {
	repo        Repository
	cache       *Cache
	invalidator Invalidator
	logger      *slog.Logger
}

// NewService constructs a Service. Cache and invalidator are optional.
func NewService(repo Repository, cache *Cache, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, invalidator: invalidator, logger: logger}
}

// IsGuardianOf reports whether parentID is guardian of studentID. A cache
// error falls through to the store; a store error propagates so the caller
// denies. Negative answers are never cached.
func (s *Service) IsGuardianOf(ctx context.Context, parentID, studentID string) (bool, error) {
	if parentID == "" || studentID == "" {
		return false, nil
	}
	if s.cache != nil {
		confirmed, err := s.cache.Confirmed(ctx, parentID, studentID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("guardian cache read", slog.Any("error", err))
			}
		} else if confirmed {
			return true, nil
		}
	}
	found, err := s.repo.Exists(ctx, parentID, studentID)
	if err != nil {
		return false, err
	}
	if found && s.cache != nil {
		if err := s.cache.Confirm(ctx, parentID, studentID); err != nil && s.logger != nil {
			s.logger.Warn("guardian cache write", slog.Any("error", err))
		}
	}
	return found, nil
}

// ListLinks returns the parent's guardianship links.
func (s *Service) ListLinks(ctx context.Context, parentID string) ([]Link, error) {
	return s.repo.ListByParent(ctx, parentID)
}

// CreateLink records a new guardianship and schedules cache invalidation.
func (s *Service) CreateLink(ctx context.Context, parentID, studentID string) (Link, error) {
	if parentID == "" || studentID == "" {
		return Link{}, errors.New("guardian: parent and student ids required")
	}
	link, err := s.repo.Create(ctx, parentID, studentID)
	if err != nil {
		return Link{}, err
	}
	s.invalidate(ctx, parentID, studentID)
	return link, nil
}

// DeleteLink removes a guardianship and schedules cache invalidation.
func (s *Service) DeleteLink(ctx context.Context, parentID, studentID string) error {
	if err := s.repo.Delete(ctx, parentID, studentID); err != nil {
		return err
	}
	s.invalidate(ctx, parentID, studentID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, parentID, studentID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, parentID, studentID); err != nil && s.logger != nil {
			s.logger.Warn("guardian cache invalidate", slog.Any("error", err))
		}
	}
	if s.invalidator != nil {
		if err := s.invalidator.EnqueueInvalidate(ctx, parentID, studentID); err != nil && s.logger != nil {
			s.logger.Warn("enqueue guardian invalidate", slog.Any("error", err))
		}
	}
}
