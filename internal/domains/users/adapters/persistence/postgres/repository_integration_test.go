//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	"github.com/Apurer/go-gin-shop-server/internal/platform/postgres/pgtest"
)

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	user, err := domain.NewUser(0, "alice", domain.RoleClient, domain.RoleEditor)
	require.NoError(t, err)
	user.UpdateProfile("Alice", "Pop", domain.Address{City: "Cluj", Street: "Memorandumului", Number: 28, Zipcode: "400114"})

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", fetched.Username)
	assert.Equal(t, "Cluj", fetched.Address.City)
	assert.True(t, fetched.HasRole(domain.RoleClient))
	assert.True(t, fetched.HasRole(domain.RoleEditor))
	assert.False(t, fetched.HasRole(domain.RoleAdmin))

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)
}

func TestRepository_UpdateRoles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	user, err := domain.NewUser(0, "bob", domain.RoleClient)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)

	saved.Roles, err = domain.NewRoleSet(domain.RoleExpeditor)
	require.NoError(t, err)
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.True(t, updated.HasRole(domain.RoleExpeditor))
	assert.False(t, updated.HasRole(domain.RoleClient))
}

func TestRepository_DuplicateUsernameAndMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	first, err := domain.NewUser(0, "carol", domain.RoleClient)
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewUser(0, "carol", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrUsernameTaken)

	_, err = repo.GetByID(ctx, 4242)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
