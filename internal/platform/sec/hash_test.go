// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cartline/internal/platform/sec"
)

// Minimum bcrypt cost keeps the suite fast.
const testCost = 4

/*
TestHasher_HashAndVerify checks the password hashing round trip.
*/
func TestHasher_HashAndVerify(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, hasher.Verify("correct horse battery staple", digest))
	assert.False(t, hasher.Verify("correct horse battery staples", digest))
	assert.False(t, hasher.Verify("", digest))
}

/*
TestHasher_DigestsAreSalted asserts that hashing the same secret twice
yields different digests, so stored hashes can never be compared or
indexed directly.
*/
func TestHasher_DigestsAreSalted(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret", first))
	assert.True(t, hasher.Verify("secret", second))
}

/*
TestHasher_HashToken verifies token hashing for material far beyond
bcrypt's 72-byte input limit, which real JWT strings always exceed.
*/
func TestHasher_HashToken(t *testing.T) {
	hasher := sec.NewHasher(testCost)
	token := "eyJhbGciOiJIUzI1NiJ9." + strings.Repeat("claimsclaims", 40) + ".signature"
	require.Greater(t, len(token), 72)

	digest, err := hasher.HashToken(token)
	require.NoError(t, err)

	assert.True(t, hasher.VerifyToken(token, digest))
	assert.False(t, hasher.VerifyToken(token+"x", digest))

	// Plain Verify must not accept the raw token; only the token path does.
	assert.False(t, hasher.Verify(token, digest))
}

/*
TestNewHasher_CostFallback checks that out-of-range costs fall back to a
working default instead of producing a broken hasher.
*/
func TestNewHasher_CostFallback(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		hasher := sec.NewHasher(cost)

		digest, err := hasher.Hash("secret")
		require.NoError(t, err)
		assert.True(t, hasher.Verify("secret", digest))
	}
}
