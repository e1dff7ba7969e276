package nav

import (
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/routes"
)

var landingPages = map[domain.Role]string{
	domain.RoleAdmin:    routes.AdminDashboard,
	domain.RoleVendor:   routes.VendorDashboard,
	domain.RoleMarketer: routes.MarketerDashboard,
}

// ResolvePostAuth returns where a user lands after signing in: the captured
// returnTo page when there is one, otherwise the landing page of role.
func ResolvePostAuth(role domain.Role, returnTo string) string {
	if returnTo != "" {
		return returnTo
	}
	if page, ok := landingPages[role]; ok {
		return page
	}
	return routes.Home
}
