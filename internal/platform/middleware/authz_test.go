// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/ctxutil"
	"github.com/taibuivan/cartline/internal/platform/middleware"
	"github.com/taibuivan/cartline/internal/platform/respond"
	"github.com/taibuivan/cartline/internal/platform/sec"
)

// stubAuthenticator returns canned claims or a canned error without
// touching tokens or stores.
type stubAuthenticator struct {
	claims *sec.AuthClaims
	err    error
}

func (stub *stubAuthenticator) Authenticate(_ context.Context, _ string) (*sec.AuthClaims, error) {
	return stub.claims, stub.err
}

func claimsFor(role sec.Role) *sec.AuthClaims {
	claims := &sec.AuthClaims{Email: "anna@example.com", Role: role}
	claims.Subject = "user-1"
	return claims
}

// observedHandler records whether the inner handler ran and what claims
// it saw.
func observedHandler(called *bool, seen **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*called = true
		if seen != nil {
			*seen = middleware.GetUser(request.Context())
		}
		respond.NoContent(writer)
	})
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Code
}

/*
TestAuthenticate_AnonymousPassesThrough checks that requests without an
Authorization header continue as anonymous.
*/
func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	called := false
	var seen *sec.AuthClaims
	handler := middleware.Authenticate(&stubAuthenticator{})(observedHandler(&called, &seen))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestAuthenticate_InjectsClaims checks that a valid bearer token makes the
verified claims visible to downstream handlers.
*/
func TestAuthenticate_InjectsClaims(t *testing.T) {
	called := false
	var seen *sec.AuthClaims
	stub := &stubAuthenticator{claims: claimsFor(sec.RoleSeller)}
	handler := middleware.Authenticate(stub)(observedHandler(&called, &seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer some-access-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, called)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID())
	assert.Equal(t, sec.RoleSeller, seen.Role)
}

/*
TestAuthenticate_MalformedHeader asserts that a present but malformed
Authorization header aborts instead of degrading to anonymous.
*/
func TestAuthenticate_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing_scheme", "some-access-token"},
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"too_many_parts", "Bearer a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.Authenticate(&stubAuthenticator{})(observedHandler(&called, nil))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", tt.header)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "UNAUTHORIZED", errorCode(t, recorder))
		})
	}
}

/*
TestAuthenticate_RejectedToken checks that a failed verification aborts
the request; it must never continue as anonymous.
*/
func TestAuthenticate_RejectedToken(t *testing.T) {
	called := false
	stub := &stubAuthenticator{err: apperr.Unauthorized("Invalid or expired token")}
	handler := middleware.Authenticate(stub)(observedHandler(&called, nil))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer revoked-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRequireAuth gates anonymous requests with 401.
*/
func TestRequireAuth(t *testing.T) {
	called := false
	handler := middleware.RequireAuth(observedHandler(&called, nil))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claimsFor(sec.RoleCustomer)))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRequireRoles checks exact role membership: 401 for anonymous, 403 for
non-members, pass for members.
*/
func TestRequireRoles(t *testing.T) {
	gate := middleware.RequireRoles(sec.RoleAdmin, sec.RoleSeller)

	tests := []struct {
		name       string
		role       *sec.Role
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer_excluded", pointerToRole(sec.RoleCustomer), http.StatusForbidden},
		{"seller_admitted", pointerToRole(sec.RoleSeller), http.StatusNoContent},
		{"admin_admitted", pointerToRole(sec.RoleAdmin), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := gate(observedHandler(&called, nil))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claimsFor(*tt.role)))
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusNoContent, called)
		})
	}
}

/*
TestRequirePermissions checks AND semantics across declared permissions.
*/
func TestRequirePermissions(t *testing.T) {
	gate := middleware.RequirePermissions(sec.PermOrderRead, sec.PermOrderUpdateAll)

	tests := []struct {
		name       string
		role       *sec.Role
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer_missing_one", pointerToRole(sec.RoleCustomer), http.StatusForbidden},
		{"seller_has_both", pointerToRole(sec.RoleSeller), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := gate(observedHandler(&called, nil))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claimsFor(*tt.role)))
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusNoContent, called)
		})
	}
}

func pointerToRole(role sec.Role) *sec.Role {
	return &role
}
