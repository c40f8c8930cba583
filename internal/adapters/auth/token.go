package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventhub/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTManager verifies session tokens issued by the platform and can issue
// its own for development tooling and tests. HS256 with a shared secret.
type JWTManager struct {
	secret []byte
}

// NewJWTManager returns a manager that implements both domain.TokenVerifier
// and domain.TokenIssuer.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// Issue signs a session token for the user.
func (m *JWTManager) Issue(userID string, role domain.Role, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Role: string(role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the subject and role claims.
func (m *JWTManager) Verify(token string) (string, domain.Role, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", "", fmt.Errorf("invalid token claims")
	}
	return claims.Subject, domain.Role(claims.Role), nil
}
