// Copyright (c) 2026 Libris. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including the user directory
	RoleAdmin UserRole = "admin"

	// Library staff: can curate the catalog
	RoleStaff UserRole = "staff"

	// Default role for standard library members
	RoleReader UserRole = "reader"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleStaff:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
