package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := GenerateToken("alice", "/ip4/1.2.3.4/tcp/4001", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "/ip4/1.2.3.4/tcp/4001", claims.Multiaddr)
}

func TestVerifyToken_NoMultiaddr(t *testing.T) {
	token, err := GenerateToken("bob", "", secret, time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.Empty(t, claims.Multiaddr)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", "", secret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := GenerateToken("alice", "", secret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := VerifyToken("not.a.jwt", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
