package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaduty-go/internal/config"
	"pharmaduty-go/internal/repository/inmemory"
)

func newTokens(t *testing.T, secret string) *Tokens {
	t.Helper()
	return NewTokens(config.AuthConfig{JWTSecret: secret, JWTIssuer: "pharmaduty", TokenTTL: time.Hour}, inmemory.NewStore())
}

func TestIssueAndParse(t *testing.T) {
	tokens := newTokens(t, "test-secret")

	raw, expiresAt, err := tokens.Issue(42, "pharmacist")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	identity, err := tokens.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.EqualValues(t, 42, identity.UserID)
	assert.Equal(t, "pharmacist", identity.Role)
	assert.NotEmpty(t, identity.TokenID)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := newTokens(t, "one-secret")
	raw, _, err := issuer.Issue(1, "admin")
	require.NoError(t, err)

	_, err = newTokens(t, "other-secret").Parse(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeDeniesToken(t *testing.T) {
	tokens := newTokens(t, "test-secret")
	raw, _, err := tokens.Issue(7, "admin")
	require.NoError(t, err)

	identity, err := tokens.Parse(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(context.Background(), identity))

	_, err = tokens.Parse(context.Background(), raw)
	assert.ErrorIs(t, err, ErrRevokedToken)

	other, _, err := tokens.Issue(7, "admin")
	require.NoError(t, err)
	_, err = tokens.Parse(context.Background(), other)
	assert.NoError(t, err)
}
