package app

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/api/handlers"
	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/config"
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func newRouter(cfg *config.Config, server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg)))

	v1 := router.Group("/api/v1")
	server.RegisterHealth(v1)

	tokenCfg := middleware.TokenConfig{
		SigningKey: []byte(cfg.Security.SessionSecret),
		Issuer:     cfg.Session.Issuer,
		ExpiresIn:  cfg.Session.Lifetime,
	}
	cookie := middleware.CookieConfig{Name: cfg.Session.Cookie, Secure: cfg.Session.Secure}
	api := v1.Group("", middleware.BrowserContext(tokenCfg, cookie))
	server.RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "route not found"})
	})
	return router
}

// buildCORSConfig allows the configured origins with credentials, which the
// context cookie needs. Credentials rule out the "*" wildcard, so it is
// dropped.
func buildCORSConfig(cfg *config.Config) cors.Config {
	origins := slices.DeleteFunc(slices.Clone(cfg.Server.AllowedOrigins), func(o string) bool {
		return o == "*" || o == ""
	})
	if len(origins) == 0 {
		origins = slices.Clone(defaultAllowedOrigins)
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", middleware.RequestIDHeader, middleware.TabIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
