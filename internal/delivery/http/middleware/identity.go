package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context with the resolved identity set.
func SetIdentity(ctx context.Context, ident domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext returns the resolved identity from the context. The
// zero Identity (status unknown) comes back when resolution never ran.
func IdentityFromContext(ctx context.Context) domain.Identity {
	if ident, ok := ctx.Value(identityKey).(domain.Identity); ok {
		return ident
	}
	return domain.Identity{}
}

// ResolveIdentity resolves the bearer token (if any) into the tri-state
// identity and stores both the identity and the raw token in the request
// context, so downstream upstream calls act as the caller. Resolution
// failures leave the identity unknown and the request proceeding: each
// handler defers its access decision until it sees the resolved state.
func ResolveIdentity(resolver domain.IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			ctx := r.Context()
			if token != "" {
				ctx = domain.WithCallerToken(ctx, token)
			}
			ident, err := resolver.Resolve(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "identity resolution failed", "err", err)
			}
			next.ServeHTTP(w, r.WithContext(SetIdentity(ctx, ident)))
		})
	}
}

// RequireAuth returns a wrapper that rejects requests whose identity did not
// resolve to authenticated. An unknown identity is rejected too: a
// not-yet-loaded identity must never pass a role gate.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromContext(r.Context())
		if !ident.Authenticated() {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
