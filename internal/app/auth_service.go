package app

import (
	"context"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type TokenRepository interface {
	// FindPrincipalByToken resolves a bearer token to its principal, or
	// domain.ErrInvalidToken when unknown or expired.
	FindPrincipalByToken(ctx context.Context, token string) (domain.Principal, error)
}

// AuthService is the thin authentication collaborator the transport layer
// consumes. Session issuance and credential management live elsewhere.
type AuthService struct {
	tokens TokenRepository
}

func NewAuthService(tokens TokenRepository) *AuthService {
	return &AuthService{tokens: tokens}
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return s.tokens.FindPrincipalByToken(ctx, token)
}
