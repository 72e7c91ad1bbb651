// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the coarse-grained authorization category of an account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "ADMIN"

	// Can manage the order pipeline across all customers
	RoleSeller Role = "SELLER"

	// Default role for standard registered users
	RoleCustomer Role = "CUSTOMER"
)

// IsValid reports whether the role is one of the known categories.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

// # Permissions

// Permission is a fine-grained capability string gating a specific operation.
type Permission string

const (
	// Order permissions
	PermOrderCreate    Permission = "order:create"
	PermOrderRead      Permission = "order:read"
	PermOrderUpdate    Permission = "order:update"
	PermOrderDelete    Permission = "order:delete"
	PermOrderReadAll   Permission = "order:read:all"
	PermOrderUpdateAll Permission = "order:update:all"
	PermOrderDeleteAll Permission = "order:delete:all"

	// User permissions
	PermUserCreate    Permission = "user:create"
	PermUserRead      Permission = "user:read"
	PermUserUpdate    Permission = "user:update"
	PermUserDelete    Permission = "user:delete"
	PermUserReadAll   Permission = "user:read:all"
	PermUserUpdateAll Permission = "user:update:all"
	PermUserDeleteAll Permission = "user:delete:all"

	// Role management permissions
	PermRoleAssign Permission = "role:assign"
	PermRoleRevoke Permission = "role:revoke"
)

// # Role → Permission Mapping

// rolePermissions is the static, total mapping from role to its permission set.
//
// It is process-wide constant data: there are no per-user permission
// overrides, and derivation is a pure function of the role.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermOrderCreate, PermOrderRead, PermOrderUpdate, PermOrderDelete,
		PermOrderReadAll, PermOrderUpdateAll, PermOrderDeleteAll,
		PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete,
		PermUserReadAll, PermUserUpdateAll, PermUserDeleteAll,
		PermRoleAssign, PermRoleRevoke,
	},
	RoleSeller: {
		// Seller can manage the full order pipeline plus basic user lookups
		PermOrderCreate, PermOrderRead, PermOrderUpdate,
		PermOrderReadAll, PermOrderUpdateAll,
		PermUserRead,
	},
	RoleCustomer: {
		// Customer acts only on resources it owns; ownership is enforced
		// at the handler level on top of these capabilities
		PermOrderCreate, PermOrderRead, PermOrderUpdate,
		PermUserRead, PermUserUpdate,
	},
}

// PermissionsFor returns the derived permission set for a role.
// Unknown roles derive the empty set.
func PermissionsFor(role Role) []Permission {
	return rolePermissions[role]
}

// HasPermission reports whether the role's derived set contains the permission.
func HasPermission(role Role, permission Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role's derived set is a superset of
// the required permissions (AND semantics).
func HasAllPermissions(role Role, required []Permission) bool {
	for _, permission := range required {
		if !HasPermission(role, permission) {
			return false
		}
	}
	return true
}

// Authorize evaluates the generic role and permission stages of the access
// decision pipeline.
//
// # Semantics
//
//   - An empty requiredRoles list means "any authenticated role".
//   - requiredPermissions use AND semantics: every single one must be derived
//     from the caller's role.
func Authorize(role Role, requiredRoles []Role, requiredPermissions []Permission) bool {
	if len(requiredRoles) > 0 {
		isMember := false
		for _, allowed := range requiredRoles {
			if role == allowed {
				isMember = true
				break
			}
		}
		if !isMember {
			return false
		}
	}

	return HasAllPermissions(role, requiredPermissions)
}
