// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/internal/auth/postgres"
)

func createUser(t *testing.T, username, email string) *auth.User {
	t.Helper()
	ctx := context.Background()
	user, err := auth.NewUser(username, email, "$2a$04$integrationhash", true)
	require.NoError(t, err)
	user.CreatedAt = user.CreatedAt.Truncate(time.Microsecond)
	user.UpdatedAt = user.UpdatedAt.Truncate(time.Microsecond)

	require.NoError(t, postgres.NewUserRepository(testPool).Create(ctx, user))
	t.Cleanup(func() {
		_, _ = testPool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID.String())
	})
	return user
}

func TestUserRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(testPool)

	user := createUser(t, "intuser", "intuser@example.com")

	t.Run("round trips every column", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, stored)
	})

	t.Run("username lookup is exact", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "INTUSER")
		require.ErrorIs(t, err, auth.ErrNotFound)

		stored, err := repo.GetByUsername(ctx, "intuser")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("exists checks", func(t *testing.T) {
		ok, err := repo.UsernameExists(ctx, "intuser")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.EmailExists(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup, err := auth.NewUser("intuser", "other@example.com", "hash", true)
		require.NoError(t, err)
		require.ErrorIs(t, repo.Create(ctx, dup), auth.ErrUsernameTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := auth.NewUser("otheruser", "intuser@example.com", "hash", true)
		require.NoError(t, err)
		require.ErrorIs(t, repo.Create(ctx, dup), auth.ErrEmailTaken)
	})
}

func TestSessionRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewSessionRepository(testPool)
	user := createUser(t, "sessuser", "sessuser@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	live, err := auth.NewSession(user.ID, "live-hash", "agent", "127.0.0.1", now.Add(time.Hour))
	require.NoError(t, err)
	expired, err := auth.NewSession(user.ID, "expired-hash", "", "", now.Add(-time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, expired))

	got, err := repo.GetByTokenHash(ctx, "live-hash")
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.Touch(ctx, "live-hash", now.Add(time.Minute)))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetByTokenHash(ctx, "expired-hash")
	require.ErrorIs(t, err, auth.ErrNotFound)

	require.NoError(t, repo.DeleteByTokenHash(ctx, "live-hash"))
	require.NoError(t, repo.DeleteByTokenHash(ctx, "live-hash"))
	_, err = repo.GetByTokenHash(ctx, "live-hash")
	require.ErrorIs(t, err, auth.ErrNotFound)
}
