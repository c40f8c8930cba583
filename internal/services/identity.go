package services

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

type identityService struct {
	verifier domain.TokenVerifier
	profile  domain.ProfileAPI
}

// NewIdentityService creates an IdentityResolver that verifies the session
// token locally and hydrates the profile from the upstream API.
func NewIdentityService(verifier domain.TokenVerifier, profile domain.ProfileAPI) domain.IdentityResolver {
	return &identityService{verifier: verifier, profile: profile}
}

// Resolve maps a bearer token to the tri-state identity. No token or an
// invalid token resolves to anonymous. A token that verifies locally but
// whose profile cannot be fetched resolves to unknown, never anonymous:
// consumers must not downgrade a possibly-authenticated user. The error is
// returned alongside for logging.
func (s *identityService) Resolve(ctx context.Context, bearerToken string) (domain.Identity, error) {
	if bearerToken == "" {
		return domain.Identity{Status: domain.IdentityAnonymous}, nil
	}

	userID, role, err := s.verifier.Verify(bearerToken)
	if err != nil {
		// Expired or tampered token: the session is over.
		return domain.Identity{Status: domain.IdentityAnonymous}, nil
	}

	user, err := s.profile.Me(domain.WithCallerToken(ctx, bearerToken))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			// The platform no longer recognizes the session.
			return domain.Identity{Status: domain.IdentityAnonymous}, nil
		}
		return domain.Identity{Status: domain.IdentityUnknown}, fmt.Errorf("fetch profile: %w", err)
	}
	if user.ID != userID {
		return domain.Identity{Status: domain.IdentityAnonymous}, nil
	}
	if user.Role == "" {
		user.Role = role
	}
	return domain.Identity{Status: domain.IdentityAuthenticated, User: user}, nil
}
