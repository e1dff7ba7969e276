package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/routes"
)

// RegisterHealth registers the probes, which need no browser context.
func (s *Server) RegisterHealth(rg gin.IRoutes) {
	rg.GET("/health/live", s.GetLiveness)
	rg.GET("/health/ready", s.GetReadiness)
}

// RegisterRoutes registers the context-bound API on rg. rg must already run
// middleware.BrowserContext; WithEngine is added here.
func (s *Server) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(s.WithEngine())

	rg.GET("/state", s.GetState)
	rg.GET("/page", s.RestorePage)
	rg.POST("/nav/navigate", s.Navigate)
	rg.POST("/nav/back", s.GoBack)

	rg.POST("/auth/login", s.Login)
	rg.POST("/auth/register", s.Register)
	rg.POST("/auth/logout", s.Logout)
	rg.GET("/profile", requirePage(routes.Profile), s.GetProfile)
	rg.PATCH("/profile", requirePage(routes.Profile), s.UpdateProfile)

	rg.GET("/cart", s.GetCart)
	rg.POST("/cart/items", s.AddCartItem)
	rg.PUT("/cart/items/:id", s.SetCartQuantity)
	rg.DELETE("/cart/items/:id", s.RemoveCartItem)
	rg.DELETE("/cart", s.ClearCart)

	rg.GET("/wishlist", s.GetWishlist)
	rg.POST("/wishlist/items", s.AddWishlistItem)
	rg.GET("/wishlist/items/:id", s.GetWishlistItem)
	rg.DELETE("/wishlist/items/:id", s.RemoveWishlistItem)

	rg.GET("/locale", s.GetLocale)
	rg.PUT("/locale", s.SetLocale)
	rg.GET("/i18n/:lang", s.GetTranslations)

	rg.GET("/products", s.ListProducts)
	rg.GET("/products/:id", s.GetProduct)
	rg.GET("/categories", s.ListCategories)

	rg.POST("/orders", middleware.RequireSession(), s.PlaceOrder)
	rg.GET("/orders", requirePage(routes.MyOrders), s.ListOrders)
	rg.GET("/orders/:id", requirePage(routes.MyOrders), s.GetOrder)

	rg.GET("/projects", s.ListProjects)
	rg.POST("/projects", requirePage(routes.ProjectBuilder), s.CreateProject)
	rg.GET("/services", s.ListServices)
	rg.POST("/services", requirePage(routes.ServiceBuilder), s.CreateService)
	rg.GET("/proposals", requirePage(routes.Proposals), s.ListProposals)
	rg.POST("/proposals", middleware.RequireRole(domain.RoleVendor, domain.RoleAdmin), s.CreateProposal)
	rg.GET("/technician-requests", middleware.RequireSession(), s.ListTechnicianRequests)
	rg.POST("/technician-requests", middleware.RequireRole(domain.RoleTechnician, domain.RoleAdmin), s.CreateTechnicianRequest)
	rg.GET("/submissions/:id", s.GetSubmission)

	rg.GET("/admin/audit", requirePage(routes.AdminDashboard), s.ListAudit)
	rg.GET("/admin/log-level", requirePage(routes.AdminDashboard), gin.WrapH(logger.Level()))
	rg.PUT("/admin/log-level", requirePage(routes.AdminDashboard), gin.WrapH(logger.Level()))

	rg.GET("/events", s.Events)
	rg.GET("/ws", s.WebSocket)
}

// requirePage guards an endpoint exactly as the page it serves is guarded.
func requirePage(key string) gin.HandlerFunc {
	d, _ := routes.Storefront.Lookup(key)
	switch {
	case !d.RequiresAuth:
		return func(c *gin.Context) { c.Next() }
	case len(d.AllowedRoles) > 0:
		return middleware.RequireRole(d.AllowedRoles...)
	default:
		return middleware.RequireSession()
	}
}
