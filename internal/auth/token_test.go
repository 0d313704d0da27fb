package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(secret, Claims{
		Email: "ops@example.org",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.org", claims.Email)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := IssueToken(secret, Claims{
		Email: "ops@example.org",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	// Wrong secret.
	_, err = ParseToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Modified payload keeps the old signature.
	parts := strings.Split(token, ".")
	forged, err := IssueToken(secret, Claims{Email: "evil@example.org", Exp: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	forgedPayload := strings.Split(forged, ".")[0]
	_, err = ParseToken(secret, forgedPayload+"."+parts[1])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := IssueToken(secret, Claims{
		Email: "ops@example.org",
		Exp:   time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenMalformed(t *testing.T) {
	for _, token := range []string{"", "nodot", "a.b.c", "!!!.!!!"} {
		_, err := ParseToken(secret, token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
