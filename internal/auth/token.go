package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scope is the capability a token grants.
type Scope string

const (
	// ScopeRead permits querying stored metrics and derived state.
	ScopeRead Scope = "read"

	// ScopeWrite permits submitting metrics. Write implies read.
	ScopeWrite Scope = "write"
)

// Allows reports whether a token scope covers the required one.
func (s Scope) Allows(required Scope) bool {
	if s == ScopeWrite {
		return true
	}
	return s == required
}

// Claims extends JWT standard claims with the token's scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope"`
}

// GenerateToken creates a signed access token for a named submitter.
// Tokens are validated by signature only, so revocation is by secret
// rotation.
func GenerateToken(subject string, scope Scope, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims. It checks the
// signature, expiry and required fields.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.Scope != ScopeRead && claims.Scope != ScopeWrite {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrTokenInvalid, claims.Scope)
	}

	return claims, nil
}
