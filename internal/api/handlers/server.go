// Package handlers implements the storefront HTTP API.
//
// Every /api/v1 request runs against the navigation engine of its browser
// context, resolved from the context cookie by middleware.BrowserContext.
// Handlers report failures with c.Error and leave rendering to
// middleware.ErrorHandler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/catalog"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/orders"
	"autoparts.dev/storefront/internal/pending"
	"autoparts.dev/storefront/internal/pkg/worker"
	"autoparts.dev/storefront/internal/store"
)

// Server implements all API handlers.
type Server struct {
	registry  *nav.Registry
	directory *auth.Directory
	catalog   *catalog.Catalog
	texts     *locale.Catalog
	orders    *orders.Service
	market    *marketplace.Market
	tracker   *pending.Tracker
	bus       *store.Bus
	pools     *worker.Pools
	audit     *audit.Logger
	storePing func(context.Context) error
	upgrader  websocket.Upgrader
}

// ServerDeps holds all dependencies for creating a Server.
type ServerDeps struct {
	Registry  *nav.Registry
	Directory *auth.Directory
	Catalog   *catalog.Catalog
	Texts     *locale.Catalog
	Orders    *orders.Service
	Market    *marketplace.Market
	Tracker   *pending.Tracker
	Bus       *store.Bus
	Pools     *worker.Pools // Optional: reported by the readiness probe
	Audit     *audit.Logger // Optional: nil disables the audit trail
	// StorePing checks the backend; nil means the backend needs no check.
	StorePing func(context.Context) error
	// AllowedOrigins restricts WebSocket upgrades; empty allows any origin.
	AllowedOrigins []string
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	s := &Server{
		registry:  deps.Registry,
		directory: deps.Directory,
		catalog:   deps.Catalog,
		texts:     deps.Texts,
		orders:    deps.Orders,
		market:    deps.Market,
		tracker:   deps.Tracker,
		bus:       deps.Bus,
		pools:     deps.Pools,
		audit:     deps.Audit,
		storePing: deps.StorePing,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(deps.AllowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

const engineKey = "nav_engine"

// WithEngine resolves the engine of the request's browser context and makes
// its session available to the role guards. The engine stays pinned in the
// registry until the request, or the event stream it serves, ends.
func (s *Server) WithEngine() gin.HandlerFunc {
	return func(c *gin.Context) {
		e, release := s.registry.Acquire(c.Request.Context(), middleware.GetContextID(c.Request.Context()))
		defer release()
		c.Set(engineKey, e)
		middleware.SetSessionSource(c, e)
		c.Next()
	}
}

// engine returns the engine set by WithEngine.
func engine(c *gin.Context) *nav.Engine {
	return c.MustGet(engineKey).(*nav.Engine)
}

// lang is the active language of the request: the stored preference of its
// context, else the ?lang= parameter the client read from its URL.
func lang(c *gin.Context) locale.Lang {
	return engine(c).Locale().Resolve(c.Request.Context(), c.Query("lang"))
}
