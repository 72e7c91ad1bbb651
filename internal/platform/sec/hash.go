// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way salted hashing of secrets (passwords, refresh
// tokens, blacklisted access tokens) with a tunable work factor.
//
// # Security
//
// bcrypt embeds a random salt in every digest, so hashing the same secret
// twice yields different digests and lookups can never be a direct equality
// or index comparison — verification must go through [Hasher.Verify], which
// is constant-time with respect to the secret.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the default cost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plain-text password.
func (h *Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify compares a plain-text password with its stored digest.
func (h *Hasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// HashToken hashes token material (JWT strings).
//
// Tokens exceed bcrypt's 72-byte input limit, so the token is pre-digested
// with SHA-256 before the salted bcrypt pass. The result is still salted and
// non-invertible; tokens are never persisted in cleartext.
func (h *Hasher) HashToken(token string) (string, error) {
	return h.Hash(tokenDigest(token))
}

// VerifyToken compares token material against a digest produced by [Hasher.HashToken].
func (h *Hasher) VerifyToken(token, digest string) bool {
	return h.Verify(tokenDigest(token), digest)
}

// tokenDigest compresses a token into a fixed-length hex string within
// bcrypt's input limit.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
