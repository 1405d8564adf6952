package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, "clinic-api-test")
	userID, profileID := uuid.New(), uuid.New()

	token, expiresAt, err := m.Generate(userID, "doctor", profileID, "doc@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, "clinic-api-test", claims.Issuer)
}

func TestValidateWrongSecret(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, "clinic-api-test")
	token, _, err := m.Generate(uuid.New(), "patient", uuid.Nil, "pat@example.com")
	require.NoError(t, err)

	other := NewTokenManager("other-secret", time.Hour, "clinic-api-test")
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, "clinic-api-test")
	token, _, err := m.Generate(uuid.New(), "patient", uuid.Nil, "pat@example.com")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, "clinic-api-test")
	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
