package session

import (
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_KeepsBackendClaims(t *testing.T) {
	var u User
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"u-1","email":"coach@example.com","role":"authenticated","user_metadata":{"display_name":"Coach"}}`), &u))

	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "coach@example.com", u.Email)
	assert.Equal(t, "authenticated", u.Claims["role"])

	u.ID = "u-2"
	raw, err := sonic.Marshal(u)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &back))
	assert.Equal(t, "u-2", back["id"])
	assert.Equal(t, "authenticated", back["role"])
	assert.Contains(t, back, "user_metadata")
}

func TestMessageOf(t *testing.T) {
	err := &AuthError{StatusCode: 400, Message: MessageEmailNotConfirmed}
	assert.Equal(t, MessageEmailNotConfirmed, MessageOf(err, "Failed to sign in"))
	assert.Equal(t, "Failed to sign in", MessageOf(errors.New("boom"), "Failed to sign in"))
	assert.Equal(t, "Failed to sign in", MessageOf(&AuthError{}, "Failed to sign in"))
}

func TestIsEmailNotConfirmed(t *testing.T) {
	assert.True(t, IsEmailNotConfirmed(&AuthError{Message: MessageEmailNotConfirmed}))
	assert.True(t, IsEmailNotConfirmed(&AuthError{Message: "invalid_grant", Code: CodeEmailNotConfirmed}))
	assert.False(t, IsEmailNotConfirmed(&AuthError{Message: "Invalid login credentials"}))
	assert.False(t, IsEmailNotConfirmed(errors.New(MessageEmailNotConfirmed)))
}
