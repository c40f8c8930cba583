package domain

import (
	"context"
	"time"
)

// Role is an application role carried on the session token.
type Role string

const (
	RoleUser  Role = "USER"
	RoleHost  Role = "HOST"
	RoleAdmin Role = "ADMIN"
)

// IdentityStatus is the resolution state of the current identity. The zero
// value is IdentityUnknown so a not-yet-resolved identity can never be
// mistaken for an anonymous one.
type IdentityStatus int

const (
	IdentityUnknown IdentityStatus = iota
	IdentityAnonymous
	IdentityAuthenticated
)

func (s IdentityStatus) String() string {
	switch s {
	case IdentityAnonymous:
		return "anonymous"
	case IdentityAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so the tri-state serializes
// as its name rather than an integer.
func (s IdentityStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UserSummary is the profile slice of a user the front-end renders.
// swagger:model UserSummary
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Identity is the resolved session identity. Consumers must defer role
// checks until Status leaves IdentityUnknown.
// swagger:model Identity
type Identity struct {
	Status IdentityStatus `json:"status"`
	User   *UserSummary   `json:"user,omitempty"`
}

// Authenticated reports whether a user is present.
func (i Identity) Authenticated() bool {
	return i.Status == IdentityAuthenticated && i.User != nil
}

// UserID returns the authenticated user's ID, or "".
func (i Identity) UserID() string {
	if i.Authenticated() {
		return i.User.ID
	}
	return ""
}

// Role returns the authenticated user's role, or "".
func (i Identity) Role() Role {
	if i.Authenticated() {
		return i.User.Role
	}
	return ""
}

// IdentityResolver resolves a bearer token into the tri-state identity.
// An empty token resolves to anonymous; a resolver outage resolves to
// unknown together with the underlying error.
type IdentityResolver interface {
	Resolve(ctx context.Context, bearerToken string) (Identity, error)
}

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (userID string, role Role, err error)
}

// TokenIssuer issues session tokens. The gateway only issues tokens in
// development tooling and tests; production tokens come from the platform.
type TokenIssuer interface {
	Issue(userID string, role Role, expiry time.Duration) (string, error)
}

// ProfileAPI reads the current user's profile from the upstream API.
type ProfileAPI interface {
	Me(ctx context.Context) (*UserSummary, error)
}

type callerTokenKey struct{}

// WithCallerToken stores the caller's bearer token for outbound upstream
// calls made on their behalf.
func WithCallerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, callerTokenKey{}, token)
}

// CallerTokenFromContext returns the bearer token stored by WithCallerToken.
func CallerTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(callerTokenKey{}).(string)
	return token, ok && token != ""
}
