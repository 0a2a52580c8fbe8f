package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeWrite allows creating, updating and deleting packages.
const ScopeWrite = "write"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingScope = errors.New("token lacks required scope")
)

// Claims carries the subject a token was minted for and the scopes it
// grants. Tokens are minted by the CLI, not by a login flow.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// NewToken mints an HS256 token for subject. A non-positive ttl yields a
// token that is already expired.
func NewToken(signingKey []byte, subject string, scopes []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	now := time.Now()
	claims := Claims{
		Scopes: slices.Clone(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

// ParseToken verifies tokenStr and that it grants every scope in required.
// A bad signature, a missing expiry or subject, or an expired token is
// ErrInvalidToken; a valid token without a required scope is
// ErrMissingScope, returned together with its claims.
func ParseToken(signingKey []byte, tokenStr string, required ...string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	for _, scope := range required {
		if !claims.HasScope(scope) {
			return &claims, fmt.Errorf("%w: %s", ErrMissingScope, scope)
		}
	}
	return &claims, nil
}
