package auth

import (
	"testing"
	"time"

	"giventake/pkg/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate("user-1", "ava@example.com", types.UserTypeOrganization)
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ava@example.com", claims.Email)
	assert.Equal(t, types.UserTypeOrganization, claims.UserType)
}

func TestValidateExpired(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)

	token, err := tm.Generate("user-1", "ava@example.com", types.UserTypeDonor)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Generate("user-1", "ava@example.com", types.UserTypeDonor)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Validate(token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Validate(signed)
	assert.Error(t, err)
}
