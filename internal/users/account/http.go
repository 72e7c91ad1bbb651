// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cartline/internal/platform/middleware"
	requestutil "github.com/taibuivan/cartline/internal/platform/request"
	"github.com/taibuivan/cartline/internal/platform/respond"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/platform/validate"
	"github.com/taibuivan/cartline/internal/users/auth"
	"github.com/taibuivan/cartline/pkg/pagination"
)

// Handler implements account management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - GET    /me        : Caller's own account.
//   - PATCH  /me        : Partial profile update.
//   - GET    /          : Account listing (admin).
//   - PUT    /{id}/role : Role assignment (admin).
//   - DELETE /{id}      : Account retirement (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/me", handler.me)
	router.With(middleware.RequirePermissions(sec.PermUserUpdate)).
		Patch("/me", handler.updateMe)

	// Administrative surface
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleAdmin))

		r.With(middleware.RequirePermissions(sec.PermUserReadAll)).
			Get("/", handler.list)
		r.With(middleware.RequirePermissions(sec.PermRoleAssign)).
			Put("/{id}/role", handler.assignRole)
		r.With(middleware.RequirePermissions(sec.PermUserDeleteAll)).
			Delete("/{id}", handler.remove)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

/*
Me returns the authenticated caller's account.

GET /api/v1/users/me

Response:
  - 200: User: Account record
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe applies partial changes to the caller's own profile.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (DisplayName)

Response:
  - 200: User: Updated account record
  - 400: ErrInvalidJSON: Bad input
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MaxLen(auth.FieldDisplayName, *input.DisplayName, auth.MaxDisplayNameLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
List returns a paginated view of all accounts.

GET /api/v1/users?page=1&limit=20

Response:
  - 200: []User with pagination metadata
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
AssignRole changes a target user's role.

PUT /api/v1/users/{id}/role

Request:
  - Body: assignRoleRequest (Role)

Response:
  - 200: User: Updated account record
  - 400: ErrValidation: Unknown role
  - 403: ErrForbidden: Self-assignment or missing permission
  - 404: ErrNotFound: Unknown target user
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")

	var input assignRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldRole, input.Role).
		OneOf(auth.FieldRole, input.Role,
			string(sec.RoleCustomer), string(sec.RoleSeller), string(sec.RoleAdmin))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.AssignRole(request.Context(), callerID, targetID, sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Remove soft-deletes a target account.

DELETE /api/v1/users/{id}

Response:
  - 204: No Content: Account retired
  - 403: ErrForbidden: Self-deletion or missing permission
  - 404: ErrNotFound: Unknown target user
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")

	if err := handler.accountService.Delete(request.Context(), callerID, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
