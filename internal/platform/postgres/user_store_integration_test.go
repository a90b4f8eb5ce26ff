//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
	"github.com/inkwell-cms/inkwell-api/internal/testdb"
)

// newUser builds a valid user with a unique email.
func newUser(t *testing.T) *domain.User {
	t.Helper()

	id := uuid.New()
	user, err := domain.NewUser(id, id.String()+"@example.com")
	require.NoError(t, err)
	return user
}

func TestUserStore_CreateAndGet(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	user := newUser(t)
	user.Username = "author-" + user.ID.String()[:8]

	require.NoError(t, tdb.Users.Create(ctx, user))

	byID, err := tdb.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.Username, byID.Username)

	byEmail, err := tdb.Users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	first := newUser(t)
	require.NoError(t, tdb.Users.Create(ctx, first))

	second := newUser(t)
	second.Email = first.Email

	err := tdb.Users.Create(ctx, second)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	first := newUser(t)
	first.Username = "taken"
	require.NoError(t, tdb.Users.Create(ctx, first))

	second := newUser(t)
	second.Username = "taken"

	err := tdb.Users.Create(ctx, second)
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserStore_NullableFields(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	// No username or profile image; both columns should be NULL and read
	// back as empty strings.
	user := newUser(t)
	require.NoError(t, tdb.Users.Create(ctx, user))

	got, err := tdb.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Username)
	assert.Empty(t, got.ProfileImageURL)

	var nullUsernames int
	err = tdb.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id = $1 AND username IS NULL`, user.ID,
	).Scan(&nullUsernames)
	require.NoError(t, err)
	assert.Equal(t, 1, nullUsernames)
}

func TestUserStore_Update(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	user := newUser(t)
	require.NoError(t, tdb.Users.Create(ctx, user))

	user.Username = "renamed"
	user.ProfileImageURL = "https://cdn.example.com/avatar.png"
	require.NoError(t, tdb.Users.Update(ctx, user))

	got, err := tdb.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.Equal(t, "https://cdn.example.com/avatar.png", got.ProfileImageURL)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestUserStore_UpdateMissingUser(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	ghost := newUser(t)

	err := tdb.Users.Update(ctx, ghost)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_Delete(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	user := newUser(t)
	require.NoError(t, tdb.Users.Create(ctx, user))
	require.NoError(t, tdb.Users.Delete(ctx, user.ID))

	_, err := tdb.Users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = tdb.Users.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_GetMissingUser(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	_, err := tdb.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = tdb.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
