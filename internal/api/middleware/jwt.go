package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
)

// ErrSigningKeyMissing is returned when no key is configured to verify tokens.
var ErrSigningKeyMissing = errors.New("context token signing key is missing")

// ContextClaims are the claims of the browser-context cookie. The context id
// is the subject; the token grants nothing beyond naming the context.
type ContextClaims struct {
	ContextID string `json:"ctx"`
	jwt.RegisteredClaims
}

// TokenConfig holds context token signing configuration.
type TokenConfig struct {
	SigningKey []byte
	// VerificationKeys are previous signing keys still accepted, so rotating
	// the secret does not reset every open cart.
	VerificationKeys [][]byte
	Issuer           string
	ExpiresIn        time.Duration
}

// GenerateToken signs a token naming contextID.
func GenerateToken(cfg TokenConfig, contextID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.ExpiresIn)

	claims := ContextClaims{
		ContextID: contextID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   contextID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken parses tokenString with the signing key or any verification key.
func (cfg TokenConfig) ValidateToken(tokenString string) (*ContextClaims, error) {
	keys := make([][]byte, 0, 1+len(cfg.VerificationKeys))
	if len(cfg.SigningKey) > 0 {
		keys = append(keys, cfg.SigningKey)
	}
	for _, k := range cfg.VerificationKeys {
		if len(k) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %w", jwt.ErrTokenUnverifiable, ErrSigningKeyMissing)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	var lastErr error
	for _, key := range keys {
		claims := &ContextClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		}, opts...)
		if err == nil && token.Valid && claims.ContextID != "" {
			return claims, nil
		}
		if err == nil {
			err = jwt.ErrTokenInvalidClaims
		}
		lastErr = err
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, lastErr
}

// CookieConfig describes the browser-context cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// BrowserContext resolves the browser context of the request from its cookie.
// A missing, tampered or expired cookie starts a fresh context and sets a new
// cookie; nothing is rejected, exactly as a browser with cleared storage
// simply starts empty.
func BrowserContext(cfg TokenConfig, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contextID string
		if raw, err := c.Cookie(cookie.Name); err == nil && raw != "" {
			claims, err := cfg.ValidateToken(raw)
			if err == nil {
				contextID = claims.ContextID
			} else {
				logger.Debug("Context cookie rejected, starting a new context",
					zap.String("request_id", GetRequestID(c.Request.Context())),
					zap.Error(err),
				)
			}
		}

		if contextID == "" {
			contextID = uuid.Must(uuid.NewV7()).String()
			token, expiresAt, err := GenerateToken(cfg, contextID)
			if err != nil {
				logger.Error("Signing context cookie failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code": "INTERNAL_ERROR", "message": "could not start a session",
				})
				return
			}
			maxAge := int(time.Until(expiresAt).Seconds())
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, token, maxAge, "/", "", cookie.Secure, true)
		}

		c.Set(string(ctxKeyContextID), contextID)
		c.Request = c.Request.WithContext(SetContextID(c.Request.Context(), contextID))
		c.Next()
	}
}
