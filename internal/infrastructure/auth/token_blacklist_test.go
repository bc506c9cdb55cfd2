package auth_test

import (
	"testing"
	"time"

	"github.com/mecanicpro/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBlacklistRevokesByJTI(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := t.Context()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "logout-jti", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "logout-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "still-valid-jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryBlacklistEntriesExpire(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := t.Context()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "short-lived", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	// the entry expires alongside the token it mirrors
	revoked, err := blacklist.IsBlacklisted(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryBlacklistForcedLogout(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := t.Context()
	issuedEarlier := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "dono", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "dono", time.Hour))

	// tokens issued before the forced logout are dead
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "dono", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, invalidated)

	// tokens issued afterwards survive
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "dono", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, invalidated)

	// other users are untouched
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "mecanico", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestBlacklistImplementations(t *testing.T) {
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
