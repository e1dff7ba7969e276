// Package middleware provides the HTTP middleware of the storefront API.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/pkg/logger"
)

// ErrorHandler is a Gin middleware that provides centralized error handling.
// It captures errors added via c.Error() and returns a consistent JSON response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		rid := GetRequestID(c.Request.Context())

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			level := logger.Warn
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				level = logger.Error
			}
			level("Request error",
				zap.String("request_id", rid),
				zap.String("path", c.FullPath()),
				zap.String("code", appErr.Code),
				zap.Int("status", appErr.HTTPStatus),
				zap.Error(appErr.Err),
			)
			body := gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			}
			if len(appErr.Params) > 0 {
				body["params"] = appErr.Params
			}
			if len(appErr.FieldErrors) > 0 {
				body["field_errors"] = appErr.FieldErrors
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		logger.Error("Unhandled request error", zap.String("request_id", rid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    apperrors.CodeInternal,
			"message": "An internal error occurred",
		})
	}
}
