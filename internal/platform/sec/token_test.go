// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cartline/internal/platform/sec"
)

func newTestCodec(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(
		"access-secret-for-tests", "refresh-secret-for-tests",
		accessTTL, refreshTTL, "cartline.test",
	)
	require.NoError(t, err)
	return codec
}

/*
TestTokenCodec_IssueAndVerify checks the signing round trip and that the
claims payload survives intact.
*/
func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 168*time.Hour)

	signed, err := codec.Issue(sec.KindAccess, "user-1", "anna@example.com", sec.RoleSeller)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Verify(sec.KindAccess, signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, sec.RoleSeller, claims.Role)
	assert.Equal(t, "cartline.test", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

/*
TestTokenCodec_RejectsWrongClass asserts that a refresh token cannot be
presented as an access token or vice versa. The classes share no claim
marker; separation rests entirely on independent signing secrets.
*/
func TestTokenCodec_RejectsWrongClass(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 168*time.Hour)

	access, err := codec.Issue(sec.KindAccess, "user-1", "anna@example.com", sec.RoleCustomer)
	require.NoError(t, err)
	refresh, err := codec.Issue(sec.KindRefresh, "user-1", "anna@example.com", sec.RoleCustomer)
	require.NoError(t, err)

	_, err = codec.Verify(sec.KindAccess, refresh)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)

	_, err = codec.Verify(sec.KindRefresh, access)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)
}

/*
TestTokenCodec_RejectsExpired checks that a correctly signed but stale
token fails with the expiry cause, distinct from a bad signature.
*/
func TestTokenCodec_RejectsExpired(t *testing.T) {
	codec := newTestCodec(t, -time.Minute, 168*time.Hour)

	signed, err := codec.Issue(sec.KindAccess, "user-1", "anna@example.com", sec.RoleCustomer)
	require.NoError(t, err)

	_, err = codec.Verify(sec.KindAccess, signed)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenCodec_RejectsTampering covers garbage input and payload edits.
*/
func TestTokenCodec_RejectsTampering(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 168*time.Hour)

	signed, err := codec.Issue(sec.KindAccess, "user-1", "anna@example.com", sec.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", signed[:len(signed)-5]},
		{"forged_signature", signed + "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(sec.KindAccess, tt.token)
			assert.ErrorIs(t, err, sec.ErrInvalidSignature)
		})
	}
}

/*
TestNewTokenCodec_RejectsWeakConfiguration asserts the constructor
refuses empty or shared secrets.
*/
func TestNewTokenCodec_RejectsWeakConfiguration(t *testing.T) {
	_, err := sec.NewTokenCodec("", "refresh", time.Minute, time.Hour, "cartline.test")
	assert.Error(t, err)

	_, err = sec.NewTokenCodec("access", "", time.Minute, time.Hour, "cartline.test")
	assert.Error(t, err)

	_, err = sec.NewTokenCodec("same", "same", time.Minute, time.Hour, "cartline.test")
	assert.Error(t, err)
}

/*
TestTokenCodec_Lifetime checks the per-class lifetime lookup used to
report expires_in to clients.
*/
func TestTokenCodec_Lifetime(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 168*time.Hour)

	assert.Equal(t, 15*time.Minute, codec.Lifetime(sec.KindAccess))
	assert.Equal(t, 168*time.Hour, codec.Lifetime(sec.KindRefresh))
}
