// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, the
// role/permission model) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Classes

// TokenKind distinguishes the two classes of signed credentials.
type TokenKind string

const (
	// KindAccess is the short-lived credential authorizing individual requests.
	KindAccess TokenKind = "access"

	// KindRefresh is the long-lived credential exchanged for a new token pair.
	KindRefresh TokenKind = "refresh"
)

// Verification failure causes. Callers collapse both to Unauthorized at the
// API boundary; the split exists for logging and tests.
var (
	ErrInvalidSignature = errors.New("sec: token signature is invalid")
	ErrTokenExpired     = errors.New("sec: token is expired")
)

// AuthClaims represents the payload embedded inside a signed token.
//
// # Contract
//
// The wire payload is {sub, email, role, exp} plus iat. These fields are a
// compatibility point with other consumers of Cartline tokens and must not
// be renamed. Token class is not a claim: each class is signed with an
// independent secret, so a token presented as the wrong class fails
// signature verification.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserID returns the token subject (the account ID).
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// # Token Codec

// kindConfig holds the per-class signing secret and lifetime.
type kindConfig struct {
	secret     []byte
	timeToLive time.Duration
}

// TokenCodec signs and verifies the two token classes using HS256.
//
// Each class carries its own secret and lifetime so that compromise of one
// secret does not compromise the other class.
type TokenCodec struct {
	kinds  map[TokenKind]kindConfig
	issuer string
}

// NewTokenCodec creates a TokenCodec with independent secrets and lifetimes
// for the access and refresh classes.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenCodec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must be independent")
	}

	return &TokenCodec{
		issuer: issuer,
		kinds: map[TokenKind]kindConfig{
			KindAccess:  {secret: []byte(accessSecret), timeToLive: accessTTL},
			KindRefresh: {secret: []byte(refreshSecret), timeToLive: refreshTTL},
		},
	}, nil
}

// Lifetime returns the configured time-to-live for a token class.
func (codec *TokenCodec) Lifetime(kind TokenKind) time.Duration {
	return codec.kinds[kind].timeToLive
}

// Issue creates a signed token of the given class for a user.
func (codec *TokenCodec) Issue(kind TokenKind, subject, email string, role Role) (string, error) {
	config, ok := codec.kinds[kind]
	if !ok {
		return "", fmt.Errorf("sec: unknown token kind %q", kind)
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(config.timeToLive)),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a token of the given class.
//
// # Fail Closed
//
// An unsigned, tampered, or wrong-class payload returns [ErrInvalidSignature];
// a correctly signed but stale payload returns [ErrTokenExpired]. There is no
// third outcome.
func (codec *TokenCodec) Verify(kind TokenKind, signedToken string) (*AuthClaims, error) {
	config, ok := codec.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("sec: unknown token kind %q", kind)
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(signedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return config.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}

	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
