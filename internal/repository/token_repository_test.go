package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRepo(t *testing.T) *SQLiteTokenRepository {
	t.Helper()
	cfg, pool, log := setupRepoTest(t)
	repo, err := NewTokenRepository(cfg, pool, log)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func TestTokenCreateIsIdempotent(t *testing.T) {
	repo := newTokenRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := repo.Create(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Still a single row for the user.
	stored, err := repo.GetTokenForUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestTokensDistinctPerUser(t *testing.T) {
	repo := newTokenRepo(t)
	ctx := context.Background()

	t1, err := repo.Create(ctx, 1)
	require.NoError(t, err)
	t2, err := repo.Create(ctx, 2)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestTokenLength(t *testing.T) {
	repo := newTokenRepo(t)
	ctx := context.Background()

	for userID := int64(1); userID <= 20; userID++ {
		token, err := repo.Create(ctx, userID)
		require.NoError(t, err)
		assert.Greater(t, len(token), 12)
		assert.Less(t, len(token), 22)
	}
}

func TestTokenExistsAndResolve(t *testing.T) {
	repo := newTokenRepo(t)
	ctx := context.Background()

	token, err := repo.Create(ctx, 7)
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, token)
	require.NoError(t, err)
	assert.True(t, exists)

	userID, err := repo.GetUserIDForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	exists, err = repo.Exists(ctx, "no-such-token")
	require.NoError(t, err)
	assert.False(t, exists)

	userID, err = repo.GetUserIDForToken(ctx, "no-such-token")
	require.NoError(t, err)
	assert.Equal(t, int64(0), userID)
}

func TestTokenRemove(t *testing.T) {
	repo := newTokenRepo(t)
	ctx := context.Background()

	token, err := repo.Create(ctx, 1)
	require.NoError(t, err)

	removed, err := repo.Remove(ctx, token)
	require.NoError(t, err)
	assert.True(t, removed)

	exists, err := repo.Exists(ctx, token)
	require.NoError(t, err)
	assert.False(t, exists)

	// Removing again reports nothing removed.
	removed, err = repo.Remove(ctx, token)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGetTokenForUserIDEmptyWhenAbsent(t *testing.T) {
	repo := newTokenRepo(t)

	token, err := repo.GetTokenForUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, token)
}
