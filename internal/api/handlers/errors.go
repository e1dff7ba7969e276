package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/catalog"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/orders"
	"autoparts.dev/storefront/internal/pending"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/store"
)

// toAppError maps domain errors to their API codes.
func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr
	}

	var authValidation *auth.ValidationError
	if errors.As(err, &authValidation) {
		return apperrors.Validation(authValidation.Fields)
	}
	var marketValidation *marketplace.ValidationError
	if errors.As(err, &marketValidation) {
		return apperrors.Validation(marketValidation.Fields)
	}

	switch {
	case errors.Is(err, auth.ErrAccountNotFound):
		return apperrors.Unauthorized(apperrors.CodeAccountNotFound, "no account with this email")
	case errors.Is(err, auth.ErrWrongPassword):
		return apperrors.Unauthorized(apperrors.CodeWrongPassword, "wrong password")
	case errors.Is(err, auth.ErrEmailTaken):
		return apperrors.Conflict(apperrors.CodeEmailTaken, "email already registered")
	case errors.Is(err, catalog.ErrProductNotFound):
		return apperrors.NotFound(apperrors.CodeProductNotFound, "product not found")
	case errors.Is(err, catalog.ErrOutOfStock):
		return apperrors.Conflict(apperrors.CodeOutOfStock, "product out of stock")
	case errors.Is(err, orders.ErrCartEmpty):
		return apperrors.BadRequest(apperrors.CodeCartEmpty, "cart is empty")
	case errors.Is(err, marketplace.ErrNotFound):
		return apperrors.NotFound(apperrors.CodeRecordNotFound, "record not found")
	case errors.Is(err, pending.ErrPending):
		return apperrors.Conflict(apperrors.CodeSubmissionPending, "submission already in progress")
	case errors.Is(err, pending.ErrNotFound):
		return apperrors.NotFound(apperrors.CodeSubmissionNotFound, "submission not found")
	case errors.Is(err, locale.ErrUnsupported):
		return apperrors.BadRequest(apperrors.CodeLocaleInvalid, "unsupported language")
	case errors.Is(err, store.ErrUnreadable):
		return apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "stored data unreadable", http.StatusServiceUnavailable)
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, "internal error", http.StatusInternalServerError)
}

// fail records err for middleware.ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
}

// bindJSON decodes the body into v, recording INVALID_REQUEST on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequestf(err))
		return false
	}
	return true
}

func requiredFields(names ...string) *apperrors.AppError {
	fields := make([]apperrors.FieldError, 0, len(names))
	for _, n := range names {
		fields = append(fields, apperrors.FieldError{Field: n, Code: apperrors.CodeFieldRequired})
	}
	return apperrors.Validation(fields)
}
