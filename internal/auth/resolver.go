package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/horizonapply/horizon/internal/shared"
)

// Resolver turns a bearer credential into a Principal. It establishes
// identity only; policy enforcement belongs to the rbac package.
type Resolver struct {
	signer *TokenSigner
	repo   Repository
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(signer *TokenSigner, repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{signer: signer, repo: repo, logger: logger}
}

// Resolve validates the raw token and loads the backing identity. Every
// failure mode (empty, malformed, expired, bad signature, unknown or
// deactivated identity) collapses into shared.ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	claims, err := r.signer.Verify(token)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	identity, err := r.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if r.logger != nil && !errors.Is(err, shared.ErrNotFound) {
			r.logger.Warn("identity lookup failed", slog.Any("error", err))
		}
		return nil, shared.ErrUnauthenticated
	}
	if !identity.IsActive {
		return nil, shared.ErrUnauthenticated
	}
	return identity.Principal(), nil
}
