package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// record appends to the audit trail. A failed write is logged by the audit
// logger and does not fail the request.
func (s *Server) record(ctx context.Context, action, resourceType, resourceID, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, action, resourceType, resourceID, actor, details)
}

// ListAudit handles GET /admin/audit?limit=, newest first.
func (s *Server) ListAudit(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxAuditLimit)
	}
	recs, err := s.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
