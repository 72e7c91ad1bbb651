// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/users/auth"
	"github.com/taibuivan/cartline/pkg/pagination"
)

// # Service

// Service implements account management use cases: self-service profile
// operations and administrative user management.
type Service struct {
	repository AccountRepository
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repository AccountRepository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Self-Service Profile

// UpdateProfileInput carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileInput struct {
	DisplayName *string
}

/*
Profile resolves a user's full account record.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or infrastructure errors
*/
func (service *Service) Profile(context context.Context, userID string) (*auth.User, error) {
	return service.repository.FindByID(context, userID)
}

/*
UpdateProfile applies partial changes to the caller's own profile.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated account entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Administration

/*
List returns a page of all accounts with pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []auth.User: Page of accounts
  - pagination.Meta: Navigation metadata
  - error: Retrieval errors
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]auth.User, pagination.Meta, error) {
	users, total, err := service.repository.List(context, params.Offset(), params.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
AssignRole changes a target user's role.

Description: The one write path to a role. Administrators cannot change
their own role, which keeps at least the acting admin in place and prevents
accidental self-lockout.

Parameters:
  - context: context.Context
  - callerID: string (acting administrator)
  - targetID: string
  - role: sec.Role

Returns:
  - *auth.User: The updated account entity
  - error: Forbidden (self-assignment), BadRequest (unknown role), NotFound
*/
func (service *Service) AssignRole(context context.Context, callerID, targetID string, role sec.Role) (*auth.User, error) {
	if !role.IsValid() {
		return nil, apperr.BadRequest("Unknown role")
	}

	if callerID == targetID {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	user, err := service.repository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := service.repository.UpdateRole(context, targetID, role); err != nil {
		return nil, err
	}

	service.logger.Info("role_assigned",
		slog.String("caller_id", callerID),
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
	)

	user.Role = role
	return user, nil
}

/*
Delete soft-deletes a target account.

Description: The account disappears from every read path; its refresh
session dies with it because token verification resolves the subject
against the store.

Parameters:
  - context: context.Context
  - callerID: string (acting administrator)
  - targetID: string

Returns:
  - error: Forbidden (self-deletion), NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	if _, err := service.repository.FindByID(context, targetID); err != nil {
		return err
	}

	if err := service.repository.SoftDelete(context, targetID); err != nil {
		return err
	}

	service.logger.Info("account_deleted",
		slog.String("caller_id", callerID),
		slog.String("target_id", targetID),
	)
	return nil
}
