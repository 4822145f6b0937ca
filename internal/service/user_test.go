package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func TestUserService_EnsureUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.Users.EnsureUser(ctx, 500, "Alice Example", "alice")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	// Idempotent: the same tg_id maps to the same row.
	second, err := env.Users.EnsureUser(ctx, 500, "Alice Example", "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = env.Users.EnsureUser(ctx, 0, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_GetByTgID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 502)

	got, err := env.Users.GetByTgID(ctx, 502)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.Users.GetByTgID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ConfirmPhone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 501)

	require.NoError(t, env.Users.ConfirmPhone(ctx, 501, "+491701234567"))

	var got models.User
	require.NoError(t, env.DB.First(&got, user.ID).Error)
	assert.Equal(t, "+491701234567", got.Phone)

	assert.ErrorIs(t, env.Users.ConfirmPhone(ctx, 999, "+4917"), ErrUserNotFound)
}

func TestUserService_ListRecent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		env.createUser(t, 510+i)
	}

	users, err := env.Users.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, users, 3)
	// Newest first.
	assert.Equal(t, int64(515), users[0].TgID)

	users, err = env.Users.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, users, 5)
}
