// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/users/account"
	"github.com/taibuivan/cartline/internal/users/auth"
	"github.com/taibuivan/cartline/pkg/pagination"
)

// # Test Doubles

type fakeAccountRepository struct {
	users   map[string]*auth.User
	ordered []string // insertion order, newest last
}

func newFakeAccountRepository(users ...*auth.User) *fakeAccountRepository {
	repository := &fakeAccountRepository{users: map[string]*auth.User{}}
	for _, user := range users {
		clone := *user
		repository.users[user.ID] = &clone
		repository.ordered = append(repository.ordered, user.ID)
	}
	return repository
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repository *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if stored, ok := repository.users[user.ID]; ok {
		stored.DisplayName = user.DisplayName
	}
	return nil
}

func (repository *fakeAccountRepository) List(_ context.Context, offset, limit int) ([]auth.User, int, error) {
	total := len(repository.ordered)
	var page []auth.User
	for index := offset; index < total && len(page) < limit; index++ {
		page = append(page, *repository.users[repository.ordered[index]])
	}
	return page, total, nil
}

func (repository *fakeAccountRepository) UpdateRole(_ context.Context, userID string, role sec.Role) error {
	if user, ok := repository.users[userID]; ok {
		user.Role = role
	}
	return nil
}

func (repository *fakeAccountRepository) SoftDelete(_ context.Context, id string) error {
	delete(repository.users, id)
	return nil
}

func newService(repository account.AccountRepository) *account.Service {
	return account.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Profile

func TestService_UpdateProfile(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "u1", Email: "mai@cartline.app", DisplayName: "Mai", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	name := "Mai Tran"
	user, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mai Tran", user.DisplayName)
	assert.Equal(t, "Mai Tran", repository.users["u1"].DisplayName)
}

func TestService_UpdateProfile_NilMeansUnchanged(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "u1", Email: "mai@cartline.app", DisplayName: "Mai", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	user, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "Mai", user.DisplayName)
}

// # Listing

func TestService_List(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "u1", Email: "a@cartline.app", Role: sec.RoleCustomer},
		&auth.User{ID: "u2", Email: "b@cartline.app", Role: sec.RoleSeller},
		&auth.User{ID: "u3", Email: "c@cartline.app", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	users, meta, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	users, _, err = service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// # Role Assignment

func TestService_AssignRole(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "admin", Email: "root@cartline.app", Role: sec.RoleAdmin},
		&auth.User{ID: "u1", Email: "mai@cartline.app", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	user, err := service.AssignRole(context.Background(), "admin", "u1", sec.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleSeller, user.Role)
	assert.Equal(t, sec.RoleSeller, repository.users["u1"].Role)
}

func TestService_AssignRole_SelfForbidden(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "admin", Email: "root@cartline.app", Role: sec.RoleAdmin},
	)
	service := newService(repository)

	_, err := service.AssignRole(context.Background(), "admin", "admin", sec.RoleCustomer)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Equal(t, sec.RoleAdmin, repository.users["admin"].Role)
}

func TestService_AssignRole_UnknownRole(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "u1", Email: "mai@cartline.app", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	_, err := service.AssignRole(context.Background(), "admin", "u1", sec.Role("SUPERUSER"))
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
}

func TestService_AssignRole_UnknownTarget(t *testing.T) {
	repository := newFakeAccountRepository()
	service := newService(repository)

	_, err := service.AssignRole(context.Background(), "admin", "ghost", sec.RoleSeller)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Deletion

func TestService_Delete(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "admin", Email: "root@cartline.app", Role: sec.RoleAdmin},
		&auth.User{ID: "u1", Email: "mai@cartline.app", Role: sec.RoleCustomer},
	)
	service := newService(repository)

	require.NoError(t, service.Delete(context.Background(), "admin", "u1"))
	_, err := service.Profile(context.Background(), "u1")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_Delete_SelfForbidden(t *testing.T) {
	repository := newFakeAccountRepository(
		&auth.User{ID: "admin", Email: "root@cartline.app", Role: sec.RoleAdmin},
	)
	service := newService(repository)

	err := service.Delete(context.Background(), "admin", "admin")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
