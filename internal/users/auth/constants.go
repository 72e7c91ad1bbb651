// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Validation Limits

const (
	// MinPasswordLength is the minimum accepted password length for
	// registration. Enforced before hashing.
	MinPasswordLength = 8

	// MaxPasswordLength caps the password size so pathological inputs
	// never reach the hasher. bcrypt only reads the first 72 bytes.
	MaxPasswordLength = 72

	// MaxDisplayNameLength bounds the optional display name.
	MaxDisplayNameLength = 120

	// MaxReasonLength bounds the free-text revocation reason.
	MaxReasonLength = 255
)

// # Messages

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid or expired token"
	msgLoggedOut          = "Logged out successfully"
	msgTokenRevoked       = "Token revoked successfully"
	msgAllTokensRevoked   = "All refresh tokens revoked"
)
