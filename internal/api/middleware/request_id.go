package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autoparts.dev/storefront/internal/store"
)

type contextKey string

const (
	// RequestIDHeader is the HTTP header for request tracing.
	RequestIDHeader = "X-Request-ID"
	// TabIDHeader identifies the browser tab sending the request. Writes are
	// tagged with it so a tab can skip its own change events.
	TabIDHeader = "X-Tab-ID"

	ctxKeyRequestID contextKey = "request_id"
	ctxKeyContextID contextKey = "context_id"
)

// RequestID injects a unique request ID into the context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			id, _ := uuid.NewV7()
			rid = id.String()
		}
		c.Set(string(ctxKeyRequestID), rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		ctx := context.WithValue(c.Request.Context(), ctxKeyRequestID, rid)
		if tab := c.GetHeader(TabIDHeader); tab != "" {
			ctx = store.WithOrigin(ctx, tab)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestID extracts request ID from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// SetContextID stores the browser context id in ctx.
func SetContextID(ctx context.Context, contextID string) context.Context {
	return context.WithValue(ctx, ctxKeyContextID, contextID)
}

// GetContextID extracts the browser context id from ctx.
func GetContextID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyContextID).(string); ok {
		return v
	}
	return ""
}
