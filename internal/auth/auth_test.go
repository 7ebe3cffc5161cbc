// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	playerID := uuid.New()
	token, err := CreateSessionToken(playerID, "nate")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotID, username, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, gotID)
	assert.Equal(t, "nate", username)
}

func TestSessionTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateSessionToken(uuid.New(), "nate")
	require.NoError(t, err)

	_, _, err = ParseSessionToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	t.Setenv("JWT_SECRET", "different-secret")
	_, _, err = ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := CreateSessionToken(uuid.New(), "nate")
	assert.ErrorIs(t, err, ErrNoSigningKey)
}
