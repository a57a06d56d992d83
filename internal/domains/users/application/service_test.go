package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	copy := *user
	if copy.ID == 0 {
		f.nextID++
		copy.ID = f.nextID
	}
	f.users[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var list []*domain.User
	for _, u := range f.users {
		copy := *u
		list = append(list, &copy)
	}
	return list, nil
}

func TestCreateUser_AssignsIDAndRoles(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	user, err := domain.NewUser(0, "alice", domain.RoleClient, domain.RoleEditor)
	require.NoError(t, err)
	created, err := svc.CreateUser(context.Background(), user)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, created.HasRole(domain.RoleClient))
	require.True(t, created.HasRole(domain.RoleEditor))
	require.False(t, created.HasRole(domain.RoleAdmin))
}

func TestCreateUser_RejectsDuplicateUsername(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	first, err := domain.NewUser(0, "alice", domain.RoleClient)
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), first)
	require.NoError(t, err)

	second, err := domain.NewUser(0, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), second)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestCreateUser_InvalidUsername(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), &domain.User{Username: "  "})
	require.ErrorIs(t, err, domain.ErrEmptyUsername)
}

func TestGatekeeper_Authorize(t *testing.T) {
	repo := newFakeUserRepo()
	client, err := repo.Save(context.Background(), mustUser(t, "client", domain.RoleClient))
	require.NoError(t, err)
	expeditor, err := repo.Save(context.Background(), mustUser(t, "expeditor", domain.RoleExpeditor))
	require.NoError(t, err)
	gate := NewGatekeeper(repo)

	resolved, err := gate.Authorize(context.Background(), client.ID, domain.OperationPlaceOrder)
	require.NoError(t, err)
	require.Equal(t, client.ID, resolved.ID)

	_, err = gate.Authorize(context.Background(), expeditor.ID, domain.OperationPlaceOrder)
	require.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = gate.Authorize(context.Background(), 0, domain.OperationPlaceOrder)
	require.ErrorIs(t, err, domain.ErrInvalidCustomerID)

	_, err = gate.Authorize(context.Background(), 999, domain.OperationPlaceOrder)
	require.ErrorIs(t, err, domain.ErrInvalidCustomerID)
}

func TestGatekeeper_PropagatesDirectoryFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("connection reset")

	_, err := NewGatekeeper(repo).Authorize(context.Background(), 1, domain.OperationDeliverOrder)
	require.EqualError(t, err, "connection reset")
}

func mustUser(t *testing.T, username string, roles ...domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(0, username, roles...)
	require.NoError(t, err)
	return user
}
