// Package auth validates bearer tokens issued by the account system and
// resolves them to an explicit actor identity. This service never reads
// ambient session state; the actor ID extracted here is threaded as a
// parameter into every operation that records it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for expired, malformed or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Config contains token verification configuration.
type Config struct {
	SecretKey string
}

// Claims are the token claims this service understands.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a new token verifier.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{secret: []byte(cfg.SecretKey)}
}

// ValidateToken checks the token signature and expiry and returns the
// subject user ID and role.
func (v *Verifier) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleCustomer
	}

	return claims.Subject, role, nil
}

// Sign mints a token for the given user. Used by tests and local tooling.
func (v *Verifier) Sign(userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.secret)
}
