// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cartline/internal/platform/sec"
)

/*
TestRole_IsValid checks recognition of the known role categories.
*/
func TestRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.True(t, sec.RoleSeller.IsValid())
	assert.True(t, sec.RoleCustomer.IsValid())

	assert.False(t, sec.Role("SUPERUSER").IsValid())
	assert.False(t, sec.Role("admin").IsValid())
	assert.False(t, sec.Role("").IsValid())
}

/*
TestPermissionsFor checks the derived permission sets per role, including
the empty set for unknown roles.
*/
func TestPermissionsFor(t *testing.T) {
	assert.Len(t, sec.PermissionsFor(sec.RoleAdmin), 16)

	seller := sec.PermissionsFor(sec.RoleSeller)
	assert.Contains(t, seller, sec.PermOrderUpdateAll)
	assert.NotContains(t, seller, sec.PermOrderDelete)
	assert.NotContains(t, seller, sec.PermRoleAssign)

	customer := sec.PermissionsFor(sec.RoleCustomer)
	assert.Contains(t, customer, sec.PermOrderCreate)
	assert.NotContains(t, customer, sec.PermOrderReadAll)

	assert.Empty(t, sec.PermissionsFor(sec.Role("SUPERUSER")))
}

/*
TestHasPermission spot-checks single capability lookups.
*/
func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       sec.Role
		permission sec.Permission
		granted    bool
	}{
		{"admin_assigns_roles", sec.RoleAdmin, sec.PermRoleAssign, true},
		{"admin_deletes_orders", sec.RoleAdmin, sec.PermOrderDelete, true},
		{"seller_updates_all_orders", sec.RoleSeller, sec.PermOrderUpdateAll, true},
		{"seller_cannot_delete_users", sec.RoleSeller, sec.PermUserDeleteAll, false},
		{"customer_places_orders", sec.RoleCustomer, sec.PermOrderCreate, true},
		{"customer_cannot_assign_roles", sec.RoleCustomer, sec.PermRoleAssign, false},
		{"unknown_role_has_nothing", sec.Role("SUPERUSER"), sec.PermOrderRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.granted, sec.HasPermission(tt.role, tt.permission))
		})
	}
}

/*
TestHasAllPermissions asserts AND semantics: one missing capability fails
the whole set.
*/
func TestHasAllPermissions(t *testing.T) {
	assert.True(t, sec.HasAllPermissions(sec.RoleSeller,
		[]sec.Permission{sec.PermOrderRead, sec.PermOrderUpdateAll}))

	assert.False(t, sec.HasAllPermissions(sec.RoleSeller,
		[]sec.Permission{sec.PermOrderRead, sec.PermRoleAssign}))

	// An empty requirement is vacuously satisfied.
	assert.True(t, sec.HasAllPermissions(sec.RoleCustomer, nil))
}

/*
TestAuthorize walks the role and permission stages of the access
decision together.
*/
func TestAuthorize(t *testing.T) {
	tests := []struct {
		name        string
		role        sec.Role
		roles       []sec.Role
		permissions []sec.Permission
		allowed     bool
	}{
		{
			name:    "no_requirements_any_authenticated_role",
			role:    sec.RoleCustomer,
			allowed: true,
		},
		{
			name:    "role_membership_passes",
			role:    sec.RoleSeller,
			roles:   []sec.Role{sec.RoleAdmin, sec.RoleSeller},
			allowed: true,
		},
		{
			name:    "role_membership_fails",
			role:    sec.RoleCustomer,
			roles:   []sec.Role{sec.RoleAdmin, sec.RoleSeller},
			allowed: false,
		},
		{
			name:        "role_passes_but_permission_missing",
			role:        sec.RoleSeller,
			roles:       []sec.Role{sec.RoleSeller},
			permissions: []sec.Permission{sec.PermOrderDeleteAll},
			allowed:     false,
		},
		{
			name:        "role_and_permissions_pass",
			role:        sec.RoleAdmin,
			roles:       []sec.Role{sec.RoleAdmin},
			permissions: []sec.Permission{sec.PermRoleAssign, sec.PermUserDeleteAll},
			allowed:     true,
		},
		{
			name:        "permissions_only",
			role:        sec.RoleCustomer,
			permissions: []sec.Permission{sec.PermOrderCreate},
			allowed:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, sec.Authorize(tt.role, tt.roles, tt.permissions))
		})
	}
}
