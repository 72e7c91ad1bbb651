// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cartline/internal/platform/middleware"
	requestutil "github.com/taibuivan/cartline/internal/platform/request"
	"github.com/taibuivan/cartline/internal/platform/respond"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the credential lifecycle entry points (registration,
// login, refresh) and the revocation surface (logout, token revoke).
// It is strictly responsible for transport concerns (status codes, headers,
// JSON); all policy lives in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register          : Creates a new account and issues a token pair.
//   - POST /login             : Authenticates and issues a token pair.
//   - POST /refresh           : Rotates a refresh token into a new pair.
//   - POST /logout            : Ends the refresh session (protected).
//   - GET  /profile           : Returns the caller's account (protected).
//   - POST /revoke-token      : Blacklists a specific access token (protected).
//   - POST /revoke-all-tokens : Invalidates the refresh session (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/profile", handler.profile)
		r.Post("/revoke-token", handler.revokeToken)
		r.Post("/revoke-all-tokens", handler.revokeAllTokens)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type revokeTokenRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// sessionPayload is the JSON shape shared by register, login, and refresh.
func sessionPayload(session *Session) map[string]any {
	return map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldExpiresIn:    session.ExpiresIn,
	}
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user, and returns a first token pair so the client is signed in immediately.

Request:
  - Body: registerRequest (Email, Password, DisplayName, Role)

Response:
  - 201: Session: Created user plus token pair
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Admin self-registration attempt
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength).
		MaxLen(FieldDisplayName, input.DisplayName, MaxDisplayNameLength)

	if input.Role != "" {
		validator.OneOf(FieldRole, input.Role,
			string(sec.RoleCustomer), string(sec.RoleSeller), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        sec.Role(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, sessionPayload(session))
}

/*
Login authenticates a user and issues a fresh token pair.

POST /api/v1/auth/login

Description: Verifies credentials and rotates the refresh session. Failure
responses are identical for unknown emails and wrong passwords.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: User profile plus token pair
  - 401: ErrUnauthorized: Invalid credentials
  - 503: ErrInfrastructure: Credential store unavailable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
Refresh rotates a refresh token into a brand new token pair.

POST /api/v1/auth/refresh

Description: The presented refresh token is verified against its signature
and the single stored hash, then superseded by the new pair.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: Session: New token pair
  - 401: ErrUnauthorized: Invalid, expired, or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRefreshToken, input.RefreshToken)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
Logout ends the caller's refresh session.

POST /api/v1/auth/logout

Description: Idempotent. Clears the stored refresh token hash for the
authenticated subject.

Response:
  - 200: Message: Confirmation
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldMessage: msgLoggedOut})
}

/*
Profile returns the authenticated caller's account.

GET /api/v1/auth/profile

Response:
  - 200: User: Account record (password and refresh hash omitted)
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
RevokeToken blacklists a specific access token.

POST /api/v1/auth/revoke-token

Description: The caller may only revoke tokens minted for their own subject.
The blacklist entry lives exactly as long as the token would have.

Request:
  - Body: revokeTokenRequest (Token, Reason)

Response:
  - 200: Message: Confirmation
  - 401: ErrUnauthorized: The presented token is invalid or expired
  - 403: ErrForbidden: Token belongs to another subject
  - 503: ErrInfrastructure: Blacklist store unavailable
*/
func (handler *Handler) revokeToken(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input revokeTokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		MaxLen(FieldReason, input.Reason, MaxReasonLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.authService.RevokeToken(request.Context(), input.Token, input.Reason, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldMessage: msgTokenRevoked})
}

/*
RevokeAllTokens invalidates the caller's refresh session.

POST /api/v1/auth/revoke-all-tokens

Description: No outstanding refresh token can mint new pairs afterwards.
Outstanding access tokens remain valid until natural expiry.

Response:
  - 200: Message: Confirmation
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) revokeAllTokens(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RevokeAllTokens(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldMessage: msgAllTokensRevoked})
}
