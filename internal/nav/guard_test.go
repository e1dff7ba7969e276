package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/routes"
)

func sessionWithRole(r domain.Role) *domain.Session {
	return &domain.Session{UserID: "u-" + string(r), Name: "Test", Email: string(r) + "@example.com", Role: r}
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		session  *domain.Session
		outcome  nav.Outcome
		target   string
		returnTo string
	}{
		{"public page signed out", routes.Cart, nil, nav.Allow, routes.Cart, ""},
		{"auth page signed out", routes.MyOrders, nil, nav.RedirectLogin, routes.Login, routes.MyOrders},
		{"role page signed out", routes.AdminDashboard, nil, nav.RedirectLogin, routes.Login, routes.AdminDashboard},
		{"auth page signed in", routes.MyOrders, sessionWithRole(domain.RoleCustomer), nav.Allow, routes.MyOrders, ""},
		{"role allowed", routes.AdminDashboard, sessionWithRole(domain.RoleAdmin), nav.Allow, routes.AdminDashboard, ""},
		{"role refused goes home", routes.AdminDashboard, sessionWithRole(domain.RoleCustomer), nav.RedirectHome, routes.Home, ""},
		{"profile refuses admin", routes.Profile, sessionWithRole(domain.RoleAdmin), nav.RedirectHome, routes.Home, ""},
		{"proposals for technician", routes.Proposals, sessionWithRole(domain.RoleTechnician), nav.Allow, routes.Proposals, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := routes.Storefront.Lookup(tt.page)
			assert.True(t, ok)
			got := nav.Guard(d, tt.session)
			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, tt.target, got.Target)
			assert.Equal(t, tt.returnTo, got.ReturnTo)
		})
	}
}

func TestGuard_Idempotent(t *testing.T) {
	sessions := []*domain.Session{nil}
	for _, r := range domain.AllRoles {
		sessions = append(sessions, sessionWithRole(r))
	}
	for _, d := range routes.Storefront.All() {
		for _, s := range sessions {
			first := nav.Guard(d, s)
			target, ok := routes.Storefront.Lookup(first.Target)
			assert.True(t, ok)
			again := nav.Guard(target, s)
			assert.Equal(t, nav.Allow, again.Outcome, "page %s session %v", d.Key, s)
			assert.Equal(t, first.Target, again.Target)
		}
	}
}

func TestResolvePostAuth(t *testing.T) {
	tests := []struct {
		role     domain.Role
		returnTo string
		want     string
	}{
		{domain.RoleAdmin, "", routes.AdminDashboard},
		{domain.RoleVendor, "", routes.VendorDashboard},
		{domain.RoleMarketer, "", routes.MarketerDashboard},
		{domain.RoleCustomer, "", routes.Home},
		{domain.RoleTechnician, "", routes.Home},
		{domain.RoleAdmin, routes.MyOrders, routes.MyOrders},
		{domain.RoleCustomer, routes.Checkout, routes.Checkout},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.returnTo, func(t *testing.T) {
			assert.Equal(t, tt.want, nav.ResolvePostAuth(tt.role, tt.returnTo))
			assert.Equal(t, tt.want, nav.ResolvePostAuth(tt.role, tt.returnTo), "deterministic")
		})
	}
}
