// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential lifecycle and access decision core.

It defines the domain entities (User, BlacklistEntry) and the logic for
issuance, rotation, and revocation of bearer credentials.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to
identity, sessions, and revocation.
*/
package auth

import (
	"time"

	"github.com/taibuivan/cartline/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Cartline platform.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name,omitempty"`
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// RefreshTokenHash is the salted digest of the single active refresh
	// token, or nil when the user has no refresh session. Overwritten on
	// every login and refresh, cleared on logout. Only the lifecycle
	// service mutates it.
	RefreshTokenHash *string `json:"-"`
}

// BlacklistEntry records an access token that was explicitly revoked before
// its natural expiry.
//
// # Invariant
//
// ExpiresAt always equals the revoked token's own expiry: once the token
// would have died naturally it is unusable anyway, so the entry never needs
// to outlive it.
type BlacklistEntry struct {
	ID        string    `json:"id"`
	TokenHash string    `json:"-"` // Salted digest of the revoked token. Never the cleartext.
	OwnerID   string    `json:"owner_id"`
	Reason    string    `json:"reason,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldDisplayName  = "display_name"
	FieldRole         = "role"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
	FieldReason       = "reason"
	FieldAccessToken  = "access_token"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
