// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes table and column names for query construction.
//
// Stores that assemble SQL dynamically reference these descriptors instead
// of string literals, so a rename touches exactly one file.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Email            string
	Password         string
	DisplayName      string
	Role             string
	RefreshTokenHash string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Email:            "email",
	Password:         "passwordhash",
	DisplayName:      "displayname",
	Role:             "role",
	RefreshTokenHash: "refreshtokenhash",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.DisplayName, t.Role,
		t.RefreshTokenHash, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
