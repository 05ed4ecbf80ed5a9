package auth

import (
	"context"
	"testing"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken_RoundTrip(t *testing.T) {
	v := NewVerifier(Config{SecretKey: "secret"})

	token, err := v.Sign("user-1", domain.RoleOperator, time.Hour)
	require.NoError(t, err)

	userID, role, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, domain.RoleOperator, role)
}

func TestValidateToken_DefaultsToCustomerRole(t *testing.T) {
	v := NewVerifier(Config{SecretKey: "secret"})

	token, err := v.Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	_, role, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, role)
}

func TestValidateToken_Expired(t *testing.T) {
	v := NewVerifier(Config{SecretKey: "secret"})

	token, err := v.Sign("user-1", domain.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	_, _, err = v.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signer := NewVerifier(Config{SecretKey: "secret"})
	verifier := NewVerifier(Config{SecretKey: "other"})

	token, err := signer.Sign("user-1", domain.RoleCustomer, time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	v := NewVerifier(Config{SecretKey: "secret"})

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = v.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	v := NewVerifier(Config{SecretKey: "secret"})

	_, _, err := v.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
