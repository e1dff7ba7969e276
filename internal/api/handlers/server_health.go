package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
)

// GetLiveness handles GET /health/live.
func (s *Server) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadiness handles GET /health/ready.
func (s *Server) GetReadiness(c *gin.Context) {
	checks := make(map[string]string)
	allHealthy := true

	if s.storePing != nil {
		if err := s.storePing(c.Request.Context()); err != nil {
			logger.Warn("Store health check failed", zap.Error(err))
			checks["store"] = "error"
			allHealthy = false
		} else {
			checks["store"] = "ok"
		}
	}

	body := gin.H{"checks": checks}
	if s.pools != nil {
		body["workers"] = s.pools.Metrics()
	}
	if s.registry != nil {
		body["contexts"] = s.registry.Len()
	}

	status, httpStatus := "ok", http.StatusOK
	if !allHealthy {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}
	body["status"] = status
	c.JSON(httpStatus, body)
}
