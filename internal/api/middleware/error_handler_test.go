package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "json")
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestErrorHandler_NoErrors(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := serve(router, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorHandler_AppError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrProductNotFoundf("42"))
	})
	router.GET("/invalid", func(c *gin.Context) {
		_ = c.Error(apperrors.Validation([]apperrors.FieldError{{Field: "email", Code: apperrors.CodeEmailInvalid}}))
	})

	w := serve(router, http.MethodGet, "/fail")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Code   string         `json:"code"`
		Params map[string]any `json:"params"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeProductNotFound, body.Code)
	assert.Equal(t, "42", body.Params["product_id"])

	w = serve(router, http.MethodGet, "/invalid")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var vbody struct {
		Code        string                 `json:"code"`
		FieldErrors []apperrors.FieldError `json:"field_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vbody))
	assert.Equal(t, apperrors.CodeValidationFailed, vbody.Code)
	require.Len(t, vbody.FieldErrors, 1)
	assert.Equal(t, "email", vbody.FieldErrors[0].Field)
}

func TestErrorHandler_GenericError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/err", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("something unexpected"))
	})

	w := serve(router, http.MethodGet, "/err")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInternal, body["code"])
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := serve(router, http.MethodGet, "/")
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "given-id", seen)
}
