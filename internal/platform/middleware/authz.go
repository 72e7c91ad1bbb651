// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Cartline API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/constants"
	"github.com/taibuivan/cartline/internal/platform/ctxutil"
	"github.com/taibuivan/cartline/internal/platform/respond"
	"github.com/taibuivan/cartline/internal/platform/sec"
)

// Authenticator defines the interface the authentication middleware needs
// from the credential lifecycle service.
//
// # Why an interface?
//
// Defining Authenticator here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject stubs during unit
// testing.
type Authenticator interface {
	// Authenticate verifies a bearer access token end to end: signature,
	// expiry, revocation status, and subject liveness. It returns the token
	// claims on success and apperr.Unauthorized on any policy failure.
	Authenticate(ctx context.Context, bearerToken string) (*sec.AuthClaims, error)
}

// Authenticate runs stage one of the access decision pipeline on every
// request carrying an Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous; protected routes are gated
//     by [RequireAuth], [RequireRoles] or [RequirePermissions] downstream.
//  3. If present, run the full verification pipeline via [Authenticator]
//     (signature, expiry, blacklist, live user lookup).
//  4. Inject [*sec.AuthClaims] into the request context for downstream stages.
//
// A present-but-invalid token aborts immediately: requests never continue as
// anonymous after a failed verification.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification Pipeline ────────────────────────────────
			claims, err := authenticator.Authenticate(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRoles blocks requests whose authenticated role is not a member of
// the declared list.
//
// # Semantics
//
// Declaring no roles means "any authenticated role" — the stage then only
// enforces authentication. Role membership is an exact set test, not a
// hierarchy: an ADMIN route does not implicitly admit a SELLER.
//
// Must be registered AFTER [Authenticate]. It implies [RequireAuth] so both
// need not be mounted.
func RequireRoles(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Role Membership Check ──────────────────────────────────────
			if !sec.Authorize(claims.Role, roles, nil) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermissions blocks requests whose role does not derive every one of
// the declared permissions (AND semantics).
//
// Permission derivation is a pure function of the role via the static
// [sec.PermissionsFor] mapping; there are no per-user overrides.
//
// Must be registered AFTER [Authenticate]. It implies [RequireAuth].
func RequirePermissions(permissions ...sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Permission Derivation Check ────────────────────────────────
			if !sec.Authorize(claims.Role, nil, permissions) {
				logger := ctxutil.GetLogger(request.Context())
				logger.WarnContext(request.Context(), "permission_denied",
					slog.String("user_id", claims.UserID()),
					slog.String("role", string(claims.Role)),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
