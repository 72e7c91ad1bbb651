// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/cartline/internal/platform/sec"
)

// # Repository Contracts

/*
UserRepository is the persistence boundary for user accounts.

Implementations must translate storage failures into the application error
taxonomy: a missing row becomes a not-found error, a duplicate email a
conflict, and connectivity problems an infrastructure failure. The service
layer relies on that distinction to decide what surfaces as Unauthorized
and what surfaces as a 503.
*/
type UserRepository interface {
	// Create persists a new user. The caller supplies the ID and the
	// already-hashed password; cleartext never crosses this boundary.
	Create(ctx context.Context, user *User) error

	// FindByEmail returns the user with the given email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given identifier.
	FindByID(ctx context.Context, id string) (*User, error)

	// UpdateRefreshTokenHash replaces the stored refresh token hash.
	// Passing nil clears it, ending the user's refresh session.
	UpdateRefreshTokenHash(ctx context.Context, userID string, hash *string) error

	// UpdateRole changes the user's role.
	UpdateRole(ctx context.Context, userID string, role sec.Role) error
}

/*
BlacklistRepository stores revoked-token entries until their natural expiry.

# Lookup Model

Revoked tokens are stored as salted one-way hashes, so membership cannot be
tested with a point lookup: the verifier must fetch the active entries and
check the candidate token against each hash. Implementations therefore
expose ListActive rather than a Contains method.
*/
type BlacklistRepository interface {
	// Insert stores a revocation entry. Entries whose ExpiresAt is
	// already in the past are silently dropped.
	Insert(ctx context.Context, entry *BlacklistEntry) error

	// ListActive returns all entries whose ExpiresAt is after now.
	ListActive(ctx context.Context, now time.Time) ([]BlacklistEntry, error)

	// DeleteExpired removes entries whose ExpiresAt is at or before now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
