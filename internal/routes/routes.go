// Package routes is the static page table of the storefront: which page keys
// exist, which component renders each one and who may open it.
package routes

import (
	"slices"

	"autoparts.dev/storefront/internal/domain"
)

// Page keys.
const (
	Home                = "home"
	Products            = "products"
	ProductDetails      = "product-details"
	Categories          = "categories"
	Cart                = "cart"
	Wishlist            = "wishlist"
	Checkout            = "checkout"
	OrderConfirmation   = "order-confirmation"
	Login               = "login"
	Register            = "register"
	ForgotPassword      = "forgot-password"
	Profile             = "profile"
	MyOrders            = "my-orders"
	AdminDashboard      = "admin-dashboard"
	VendorDashboard     = "vendor-dashboard"
	MarketerDashboard   = "marketer-dashboard"
	TechnicianDashboard = "technician-dashboard"
	Projects            = "projects"
	ProjectBuilder      = "project-builder"
	Services            = "services"
	ServiceBuilder      = "service-builder"
	Proposals           = "proposals"
	About               = "about"
	Contact             = "contact"
	Terms               = "terms"
	Privacy             = "privacy"
)

// Descriptor is the policy of one page.
type Descriptor struct {
	Key          string        `json:"key"`
	Component    string        `json:"component"`
	RequiresAuth bool          `json:"requires_auth"`
	AllowedRoles []domain.Role `json:"allowed_roles,omitempty"`
}

// Allows reports whether role may open the page. A page without allowed
// roles admits everyone.
func (d Descriptor) Allows(role domain.Role) bool {
	return len(d.AllowedRoles) == 0 || slices.Contains(d.AllowedRoles, role)
}

// Table is an immutable page lookup.
type Table struct {
	byKey    map[string]Descriptor
	order    []string
	fallback Descriptor
}

// NewTable builds a table. fallbackKey must be one of descs; it is what
// unknown keys resolve to.
func NewTable(fallbackKey string, descs ...Descriptor) *Table {
	t := &Table{byKey: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if _, dup := t.byKey[d.Key]; !dup {
			t.order = append(t.order, d.Key)
		}
		d.AllowedRoles = slices.Clone(d.AllowedRoles)
		t.byKey[d.Key] = d
	}
	fb, ok := t.byKey[fallbackKey]
	if !ok {
		panic("routes: fallback page " + fallbackKey + " not in table")
	}
	t.fallback = fb
	return t
}

// Lookup returns the descriptor of key. Unknown keys yield the fallback
// descriptor and false.
func (t *Table) Lookup(key string) (Descriptor, bool) {
	if d, ok := t.byKey[key]; ok {
		return d, true
	}
	return t.fallback, false
}

// Has reports whether key is a known page.
func (t *Table) Has(key string) bool {
	_, ok := t.byKey[key]
	return ok
}

// Fallback returns the descriptor unknown keys resolve to.
func (t *Table) Fallback() Descriptor {
	return t.fallback
}

// All returns every descriptor in registration order.
func (t *Table) All() []Descriptor {
	out := make([]Descriptor, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.byKey[k])
	}
	return out
}

func public(key, component string) Descriptor {
	return Descriptor{Key: key, Component: component}
}

func private(key, component string, roles ...domain.Role) Descriptor {
	return Descriptor{Key: key, Component: component, RequiresAuth: true, AllowedRoles: roles}
}

// Storefront is the page table of the shop.
var Storefront = NewTable(Home,
	public(Home, "HomePage"),
	public(Products, "ProductListPage"),
	public(ProductDetails, "ProductDetailsPage"),
	public(Categories, "CategoriesPage"),
	public(Cart, "CartPage"),
	public(Wishlist, "WishlistPage"),
	public(Checkout, "CheckoutPage"),
	public(OrderConfirmation, "OrderConfirmationPage"),
	public(Login, "LoginPage"),
	public(Register, "RegisterPage"),
	public(ForgotPassword, "ForgotPasswordPage"),
	private(Profile, "ProfilePage",
		domain.RoleCustomer, domain.RoleVendor, domain.RoleTechnician, domain.RoleMarketer),
	private(MyOrders, "MyOrdersPage"),
	private(AdminDashboard, "AdminDashboard", domain.RoleAdmin),
	private(VendorDashboard, "VendorDashboard", domain.RoleVendor),
	private(MarketerDashboard, "MarketerDashboard", domain.RoleMarketer),
	private(TechnicianDashboard, "TechnicianDashboard", domain.RoleTechnician),
	public(Projects, "ProjectsPage"),
	private(ProjectBuilder, "ProjectBuilderPage"),
	public(Services, "ServicesPage"),
	private(ServiceBuilder, "ServiceBuilderPage"),
	private(Proposals, "ProposalsPage", domain.RoleVendor, domain.RoleTechnician, domain.RoleAdmin),
	public(About, "AboutPage"),
	public(Contact, "ContactPage"),
	public(Terms, "TermsPage"),
	public(Privacy, "PrivacyPage"),
)
