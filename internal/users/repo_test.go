package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return NewRepository(conn)
}

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.Create(ctx, CreateUserDTO{Username: "ada", Email: "ada@example.com", PasswordHash: "hash", IsAdmin: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
	require.True(t, byEmail.IsAdmin)

	byName, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", byID.Username)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	dto := FromModel(byID)
	require.Equal(t, "ada@example.com", dto.Email)
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Create(ctx, CreateUserDTO{Username: "one", Email: "dup@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Username: "two", Email: "dup@example.com", PasswordHash: "h"})
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestRepositoryUpdatesAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.Create(ctx, CreateUserDTO{Username: "first", Email: "first@example.com", PasswordHash: "old"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Username: "second", Email: "second@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, first.ID, "new"))
	require.NoError(t, repo.SetAdmin(ctx, first.ID, true))

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "new", reloaded.PasswordHash)
	require.True(t, reloaded.IsAdmin)

	require.ErrorIs(t, repo.UpdatePasswordHash(ctx, 999, "x"), gorm.ErrRecordNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "first", all[0].Username)
}
