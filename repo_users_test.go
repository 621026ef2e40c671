package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-auth-roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUsersRepositoryInsertAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Insert(ctx, &auth.User{
		Username:     "anna",
		PasswordHash: "hash",
		RoleName:     "angel",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "anna", created.Username)
	assert.Equal(t, "angel", created.RoleName)

	byName, err := store.FindByUsername(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", byID.Username)
}

func TestUsersRepositoryAssignsIncreasingIDs(t *testing.T) {
	store := newTestStore(t)

	first := seedUser(t, store, "bob", "1234", auth.RoleAdmin)
	second := seedUser(t, store, "sue", "1234", auth.RoleStudent)

	assert.Greater(t, second.ID, first.ID)
}

func TestUsersRepositoryNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "sue", "1234", auth.RoleStudent)

	_, err := store.FindByUsername(ctx, "nobody")
	assert.True(t, auth.IsRecordNotFound(err))

	_, err = store.FindByUsername(ctx, "SUE")
	assert.True(t, auth.IsRecordNotFound(err), "username match is exact")

	_, err = store.FindByID(ctx, 999)
	assert.True(t, auth.IsRecordNotFound(err))
}

func TestUsersRepositoryDuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	seedUser(t, store, "sue", "1234", auth.RoleStudent)

	_, err := store.Insert(context.Background(), &auth.User{
		Username:     "sue",
		PasswordHash: "other",
		RoleName:     auth.RoleStudent,
	})
	require.Error(t, err)
	assert.False(t, auth.IsRecordNotFound(err))

	users, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsersRepositoryList(t *testing.T) {
	store := newTestStore(t)

	users, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	seedUser(t, store, "bob", "1234", auth.RoleAdmin)
	seedUser(t, store, "sue", "1234", auth.RoleStudent)

	users, err = store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
	assert.Equal(t, "sue", users[1].Username)
}

func TestUsersRepositoryConcurrentInserts(t *testing.T) {
	store := newTestStore(t)
	names := []string{"a", "b", "c", "d", "e"}

	var wg sync.WaitGroup
	errs := make(chan error, len(names))
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := store.Insert(context.Background(), &auth.User{
				Username:     name,
				PasswordHash: "hash",
				RoleName:     auth.RoleStudent,
			})
			errs <- err
		}(name)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	users, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, len(names))
}

func TestEnsureUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	admin, err := auth.EnsureUser(ctx, store, hasher, "bob", "1234", auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, admin.RoleName)
	assert.NoError(t, hasher.ComparePasswordAndHash("1234", admin.PasswordHash))

	again, err := auth.EnsureUser(ctx, store, hasher, "bob", "other", auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.NoError(t, hasher.ComparePasswordAndHash("1234", again.PasswordHash), "existing user is not overwritten")
}
