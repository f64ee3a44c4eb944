package students

import (
	"context"
	"fmt"
	"strings"

	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// UpdateInput carries the editable profile fields.
type UpdateInput struct {
	Name            string
	Email           string
	GraduationYear  int
	GPA             *float64
	SATScore        *int
	ACTScore        *int
	TargetCountries []string
	IntendedMajors  []string
}

// Service handles student profile business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches a student's profile.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.Get(ctx, id)
}

// Update rewrites a student's profile.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Profile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name required", httpx.ErrValidation)
	}
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Name = strings.TrimSpace(in.Name)
	profile.Email = strings.TrimSpace(in.Email)
	profile.GraduationYear = in.GraduationYear
	profile.GPA = in.GPA
	profile.SATScore = in.SATScore
	profile.ACTScore = in.ACTScore
	profile.TargetCountries = in.TargetCountries
	profile.IntendedMajors = in.IntendedMajors
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
