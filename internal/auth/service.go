package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/horizonapply/horizon/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	signer *TokenSigner
}

// NewService constructs a new Service.
func NewService(repo Repository, signer *TokenSigner) *Service {
	return &Service{repo: repo, signer: signer}
}

// Authenticate validates email/password credentials and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Principal, string, error) {
	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !identity.IsActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	token, err := s.signer.Sign(identity)
	if err != nil {
		return nil, "", err
	}
	return identity.Principal(), token, nil
}
