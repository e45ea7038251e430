package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"go.uber.org/zap"
)

// AuthProvider defines an interface for authentication providers.
// Different authentication mechanisms can implement this interface
// to be used with the AuthenticationWithProvider middleware.
type AuthProvider interface {
	// Authenticate examines the request for credentials and validates them.
	// Returns true if the request is authenticated, false otherwise.
	Authenticate(req *common.Request) bool
}

// BearerTokenProvider provides Bearer Token Authentication.
// It can validate tokens against a predefined map or using a custom validator function.
type BearerTokenProvider struct {
	ValidTokens map[string]bool         // token -> valid
	Validator   func(token string) bool // optional token validator
}

// Authenticate extracts the token from the Authorization header and
// validates it using either the validator function (if provided) or the
// ValidTokens map.
func (p *BearerTokenProvider) Authenticate(req *common.Request) bool {
	authHeader := req.Headers.Get("Authorization")
	if authHeader == "" {
		return false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	if p.Validator != nil {
		return p.Validator(token)
	}

	return p.ValidTokens[token]
}

// APIKeyProvider provides API Key Authentication against a named header.
type APIKeyProvider struct {
	ValidKeys map[string]bool // key -> valid
	Header    string          // header name (e.g., "X-API-Key")
}

// Authenticate checks the configured header for a valid API key.
func (p *APIKeyProvider) Authenticate(req *common.Request) bool {
	if p.Header == "" {
		return false
	}
	key := req.Headers.Get(p.Header)
	return key != "" && p.ValidKeys[key]
}

// AuthenticationWithProvider is a middleware that checks if a request is
// authenticated using the provided auth provider. If authentication fails,
// it finishes the response with a 401 Unauthorized JSON body.
func AuthenticationWithProvider(provider AuthProvider, logger *zap.Logger) common.Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		if provider.Authenticate(req) {
			logger.Debug("Authentication successful",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
			)
			next(nil)
			return
		}

		logger.Warn("Authentication failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)
		res.Status(http.StatusUnauthorized).JSON(map[string]string{"message": "unauthorized"})
	}
}

// Authentication is a middleware that validates bearer tokens with the given
// function. It is a convenience wrapper around AuthenticationWithProvider
// and a BearerTokenProvider.
func Authentication(validator func(token string) bool, logger *zap.Logger) common.Middleware {
	return AuthenticationWithProvider(&BearerTokenProvider{Validator: validator}, logger)
}
