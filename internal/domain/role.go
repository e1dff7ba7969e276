// Package domain holds the storefront's shared value types: roles, the
// authenticated session, cart and wishlist lines, search filters and the
// change events pushed to open tabs.
package domain

import "strings"

// Role is the kind of account a session belongs to.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleVendor     Role = "vendor"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
	RoleMarketer   Role = "marketer"
)

// AllRoles lists every role in seeding order.
var AllRoles = []Role{RoleCustomer, RoleVendor, RoleTechnician, RoleAdmin, RoleMarketer}

// ParseRole converts s into a Role; ok is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleTechnician, RoleAdmin, RoleMarketer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
