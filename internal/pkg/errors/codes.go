package errors

import "net/http"

// Error code constants. Clients translate them through the "error.<code>"
// keys of the locale catalogs; backend messages stay in English.

// Auth error codes.
const (
	CodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	CodeWrongPassword   = "WRONG_PASSWORD"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodeSessionRequired = "SESSION_REQUIRED"
	CodeRoleForbidden   = "ROLE_FORBIDDEN"
)

// Validation error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeFieldRequired    = "FIELD_REQUIRED"
	CodeEmailInvalid     = "EMAIL_INVALID"
	CodePasswordTooShort = "PASSWORD_TOO_SHORT"
	CodePasswordMismatch = "PASSWORD_MISMATCH"
	CodeLocaleInvalid    = "LOCALE_INVALID"
)

// Catalog, cart and order error codes.
const (
	CodeProductNotFound = "PRODUCT_NOT_FOUND"
	CodeOutOfStock      = "OUT_OF_STOCK"
	CodeCartEmpty       = "CART_EMPTY"
	CodeNotInCart       = "NOT_IN_CART"
	CodeOrderFailed     = "ORDER_FAILED"
)

// Marketplace error codes.
const (
	CodeRecordNotFound     = "RECORD_NOT_FOUND"
	CodeSubmissionPending  = "SUBMISSION_PENDING"
	CodeSubmissionNotFound = "SUBMISSION_NOT_FOUND"
)

// Generic codes.
const (
	CodeInternal           = "INTERNAL_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// ErrSessionRequired is returned by API guards when no session is active.
func ErrSessionRequired() *AppError {
	return &AppError{
		Code:       CodeSessionRequired,
		Message:    "sign in required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrRoleForbidden is returned when the session role is outside a route's allowed set.
func ErrRoleForbidden(role string) *AppError {
	return (&AppError{
		Code:       CodeRoleForbidden,
		Message:    "role not allowed for this resource",
		HTTPStatus: http.StatusForbidden,
	}).WithParams(map[string]interface{}{"role": role})
}

// ErrProductNotFoundf creates a product not found error.
func ErrProductNotFoundf(productID string) *AppError {
	return (&AppError{
		Code:       CodeProductNotFound,
		Message:    "product not found",
		HTTPStatus: http.StatusNotFound,
	}).WithParams(map[string]interface{}{"product_id": productID})
}

// ErrInvalidRequestf creates a bad request error for an unreadable body.
func ErrInvalidRequestf(err error) *AppError {
	return Wrap(err, CodeInvalidRequest, "request body is invalid", http.StatusBadRequest)
}
