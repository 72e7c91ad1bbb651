// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/pkg/uuidv7"
)

// # Service

// Service implements the credential lifecycle use cases: issuance, rotation,
// revocation, and verification.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// verification, or revocation logic must be reviewed by the security team.
type Service struct {
	userRepository      UserRepository
	blacklistRepository BlacklistRepository
	hasher              *sec.Hasher
	codec               *sec.TokenCodec
	logger              *slog.Logger

	// failOpen controls what happens when the blacklist store is
	// unreachable during verification: true admits tokens that may have
	// been revoked (availability wins), false rejects with an
	// infrastructure failure (security wins).
	failOpen bool
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	blacklistRepo BlacklistRepository,
	hasher *sec.Hasher,
	codec *sec.TokenCodec,
	logger *slog.Logger,
	failOpen bool,
) *Service {
	return &Service{
		userRepository:      userRepo,
		blacklistRepository: blacklistRepo,
		hasher:              hasher,
		codec:               codec,
		logger:              logger,
		failOpen:            failOpen,
	}
}

// # Session Shape

// Session is the result of a successful issuance: the authenticated user and
// a fresh token pair.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string

	// ExpiresIn is the access token lifetime in seconds, advertised to
	// clients so they can schedule refreshes.
	ExpiresIn int64
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        sec.Role
}

/*
Register validates, hashes, and persists a brand new user account, then
issues its first session.

Description: Deep-enrollment of a new member. The cleartext password exists
only on the call stack; what is persisted is its bcrypt hash.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Created user plus a fresh token pair
  - error: Conflict (if identity exists), Forbidden (admin self-signup) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	// Admin accounts are provisioned out of band, never self-registered.
	if input.Role == sec.RoleAdmin {
		return nil, apperr.Forbidden("Admin accounts cannot be self-registered")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := input.Role
	if !role.IsValid() {
		role = sec.RoleCustomer
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         role,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return service.issueSession(context, user)
}

// # Login & Refresh Flow

/*
Login verifies credentials and issues a fresh token pair.

Description: Both the unknown-email and wrong-password paths collapse into
the same Unauthorized error so responses never reveal whether an email is
registered. Only infrastructure failures are reported distinctly.

Parameters:
  - context: context.Context
  - email: string
  - password: string (cleartext, never stored)

Returns:
  - *Session: Authenticated user plus token pair
  - error: Unauthorized or infrastructure errors
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if !service.hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	return service.issueSession(context, user)
}

/*
Refresh rotates a refresh token into a brand new token pair.

Description: The presented token must carry a valid refresh signature AND
match the single stored hash for its subject. Rotation overwrites that hash,
so a refresh token can be redeemed exactly once; replaying a superseded token
fails the hash comparison.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New token pair for the same user
  - error: Unauthorized on any policy failure, infrastructure errors otherwise
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	claims, err := service.codec.Verify(sec.KindRefresh, refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(msgInvalidToken)
		}
		return nil, err
	}

	// No stored session, or a token that predates the last rotation.
	if user.RefreshTokenHash == nil || !service.hasher.VerifyToken(refreshToken, *user.RefreshTokenHash) {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	return service.issueSession(context, user)
}

/*
Logout ends the user's refresh session by clearing the stored hash.

Description: Idempotent. Outstanding access tokens keep working until their
natural expiry unless they are individually revoked.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshTokenHash(context, userID, nil); err != nil {
		return err
	}

	service.logger.Info("session_cleared", slog.String("user_id", userID))
	return nil
}

// # Revocation Flow

/*
RevokeToken blacklists a specific access token before its natural expiry.

Description: The token is verified first so revocation cannot be used to
probe for forged tokens, and ownership is enforced: a caller may only revoke
tokens minted for their own subject. The blacklist entry stores a salted
hash of the token and lives exactly as long as the token would have.

Parameters:
  - context: context.Context
  - accessToken: string (the token to revoke, cleartext)
  - reason: string (optional audit note)
  - callerID: string (authenticated subject performing the revocation)

Returns:
  - *BlacklistEntry: The stored revocation record
  - error: Unauthorized, Forbidden, or infrastructure errors
*/
func (service *Service) RevokeToken(context context.Context, accessToken, reason, callerID string) (*BlacklistEntry, error) {

	claims, err := service.codec.Verify(sec.KindAccess, accessToken)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	if claims.UserID() != callerID {
		return nil, apperr.Forbidden("You can only revoke your own tokens")
	}

	tokenHash, err := service.hasher.HashToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_hash_failed: %w", err)
	}

	entry := &BlacklistEntry{
		ID:        uuidv7.New(),
		TokenHash: tokenHash,
		OwnerID:   claims.UserID(),
		Reason:    reason,
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: time.Now(),
	}

	if err := service.blacklistRepository.Insert(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("token_revoked",
		slog.String("owner_id", entry.OwnerID),
		slog.Time("expires_at", entry.ExpiresAt),
	)

	return entry, nil
}

/*
RevokeAllTokens invalidates the user's refresh session in one stroke.

Description: Clears the stored refresh token hash, so no outstanding refresh
token can mint new pairs. Outstanding access tokens are NOT blacklisted and
remain valid until their natural expiry, a window bounded by the access
token lifetime.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (service *Service) RevokeAllTokens(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshTokenHash(context, userID, nil); err != nil {
		return err
	}

	service.logger.Info("all_refresh_tokens_revoked", slog.String("user_id", userID))
	return nil
}

/*
IsRevoked reports whether the given access token has been blacklisted.

Description: Blacklist entries hold salted one-way hashes, so membership is
checked by verifying the candidate token against every active entry. When
the blacklist store is unreachable the configured fail mode decides: open
admits the token with a warning, closed returns the infrastructure failure.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: true if an active entry matches
  - error: Infrastructure failures only when fail-closed
*/
func (service *Service) IsRevoked(context context.Context, token string) (bool, error) {

	entries, err := service.blacklistRepository.ListActive(context, time.Now())
	if err != nil {
		if service.failOpen {
			service.logger.Warn("blacklist_check_failed_open", slog.Any("error", err))
			return false, nil
		}
		return false, err
	}

	for _, entry := range entries {
		if service.hasher.VerifyToken(token, entry.TokenHash) {
			return true, nil
		}
	}

	return false, nil
}

/*
PurgeExpired sweeps blacklist entries whose tokens have expired naturally.

Description: Intended to run on a timer. Returns how many entries were
removed so the caller can log sweep activity.

Parameters:
  - context: context.Context

Returns:
  - int: Number of entries removed
  - error: Infrastructure failures
*/
func (service *Service) PurgeExpired(context context.Context) (int, error) {
	removed, err := service.blacklistRepository.DeleteExpired(context, time.Now())
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		service.logger.Info("blacklist_purged", slog.Int("removed", removed))
	}
	return removed, nil
}

// # Verification Pipeline

/*
Authenticate runs the full access-token verification pipeline:

 1. Signature and expiry check against the access secret.
 2. Blacklist check (subject to the fail mode).
 3. Subject resolution against the user store.

Description: The returned claims carry the user's CURRENT email and role
from the store, so role changes take effect on the next request rather than
the next login. All policy failures collapse into the same Unauthorized
error; only infrastructure failures surface distinctly.

Parameters:
  - context: context.Context
  - bearerToken: string (raw token from the Authorization header)

Returns:
  - *sec.AuthClaims: Verified identity of the caller
  - error: Unauthorized or infrastructure errors
*/
func (service *Service) Authenticate(context context.Context, bearerToken string) (*sec.AuthClaims, error) {

	claims, err := service.codec.Verify(sec.KindAccess, bearerToken)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	revoked, err := service.IsRevoked(context, bearerToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(msgInvalidToken)
		}
		return nil, err
	}

	claims.Email = user.Email
	claims.Role = user.Role

	return claims, nil
}

// # Profile

/*
Profile resolves the authenticated user's full account record.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or infrastructure errors
*/
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// # Internal Helpers

// issueSession mints a fresh access/refresh pair for the user and rotates
// the stored refresh hash. There is at most one live refresh session per
// user; issuing a new pair supersedes the previous one.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {

	accessToken, err := service.codec.Issue(sec.KindAccess, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_access_failed: %w", err)
	}

	refreshToken, err := service.codec.Issue(sec.KindRefresh, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_refresh_failed: %w", err)
	}

	refreshHash, err := service.hasher.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdateRefreshTokenHash(context, user.ID, &refreshHash); err != nil {
		return nil, err
	}
	user.RefreshTokenHash = &refreshHash

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.codec.Lifetime(sec.KindAccess).Seconds()),
	}, nil
}
