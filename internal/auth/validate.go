package auth

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// DefaultMinPasswordLength applies when no minimum is configured.
const DefaultMinPasswordLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// tagCodes maps failed validation tags to the field codes the forms show.
var tagCodes = map[string]string{
	"required": apperrors.CodeFieldRequired,
	"email":    apperrors.CodeEmailInvalid,
	"min":      apperrors.CodePasswordTooShort,
	"eqfield":  apperrors.CodePasswordMismatch,
}

// fieldErrors converts the result of a validator call into field errors.
func fieldErrors(err error) []apperrors.FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.FieldError{{Field: "form", Code: apperrors.CodeValidationFailed}}
	}
	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = apperrors.CodeValidationFailed
		}
		out = append(out, apperrors.FieldError{Field: fe.Field(), Code: code})
	}
	return out
}

// IsValidEmail checks the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// IsValidPassword reports whether password has at least minLength characters.
// A non-positive minLength means DefaultMinPasswordLength.
func IsValidPassword(password string, minLength int) bool {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	return validate.Var(password, fmt.Sprintf("min=%d", minLength)) == nil
}

// NormalizeEmail is the directory's lookup form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidationError lists the fields a form must fix.
type ValidationError struct {
	Fields []apperrors.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func validationError(fields []apperrors.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// passwordLength adds PASSWORD_TOO_SHORT when password is present but short.
func passwordLength(fields []apperrors.FieldError, password string, minLength int) []apperrors.FieldError {
	if password != "" && !IsValidPassword(password, minLength) {
		fields = append(fields, apperrors.FieldError{Field: "password", Code: apperrors.CodePasswordTooShort})
	}
	return fields
}

// ValidateLogin checks the login form before any lookup happens.
func ValidateLogin(email, password string, minLength int) error {
	form := loginForm{Email: strings.TrimSpace(email), Password: password}
	fields := fieldErrors(validate.Struct(form))
	return validationError(passwordLength(fields, password, minLength))
}

// ValidateRegistration checks the registration form.
func ValidateRegistration(u NewUser, minLength int) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	fields := fieldErrors(validate.Struct(u))
	return validationError(passwordLength(fields, u.Password, minLength))
}
