// Package middleware provides a collection of middleware components for the
// LRouter framework.
package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"go.uber.org/zap"
)

// Use the Middleware type from the common package
type Middleware = common.Middleware

// Chain composes multiple middlewares into a single step that runs them in
// order before continuing to the wrapped chain.
func Chain(middlewares ...Middleware) Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		i := 0
		var advance common.Next
		advance = func(err error) {
			if i < len(middlewares) {
				mw := middlewares[i]
				i++
				mw(ctx, req, res, advance)
				return
			}
			next(err)
		}
		advance(nil)
	}
}

// Recovery converts a panic in any later step or handler into a 500
// response. The router already guards the whole chain this way; use
// Recovery to scope recovery to part of a composed pipeline.
func Recovery(logger *zap.Logger) Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		defer func() {
			if rec := recover(); rec != nil {
				// Log the panic
				logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("method", req.Method),
					zap.String("path", req.Path),
				)

				res.Status(http.StatusInternalServerError).JSON(map[string]string{"message": "internal server error"})
			}
		}()

		next(nil)
	}
}

// Logging is a middleware that logs requests once their response settles.
func Logging(logger *zap.Logger) Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		start := time.Now()

		// Capture before later steps rewrite the path for mounted routers.
		method := req.Method
		path := req.Path

		res.OnFinish(func(result common.Result) {
			duration := time.Since(start)

			// Use appropriate log level based on status code and duration
			if result.StatusCode >= 500 {
				logger.Error("Server error",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", result.StatusCode),
					zap.Duration("duration", duration),
				)
			} else if result.StatusCode >= 400 {
				logger.Warn("Client error",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", result.StatusCode),
					zap.Duration("duration", duration),
				)
			} else if duration > 1*time.Second {
				logger.Warn("Slow request",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", result.StatusCode),
					zap.Duration("duration", duration),
				)
			} else {
				// Normal requests at Debug level to avoid log spam
				logger.Debug("Request",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", result.StatusCode),
					zap.Duration("duration", duration),
				)
			}
		})

		next(nil)
	}
}
