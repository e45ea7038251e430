package middleware

import (
	"context"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"github.com/google/uuid"
)

// TraceHeader is the request header carrying the per-invocation trace ID.
const TraceHeader = "X-Trace-Id"

// Trace creates a middleware that assigns a unique trace ID to each request
// that does not already carry one. The ID travels on the request headers so
// downstream steps and handlers can correlate their logs across one
// invocation.
func Trace() common.Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		if req.Headers.Get(TraceHeader) == "" {
			req.Headers.Set(TraceHeader, uuid.New().String())
		}
		next(nil)
	}
}

// TraceID returns the request's trace ID, or an empty string if tracing is
// not enabled.
func TraceID(req *common.Request) string {
	return req.Headers.Get(TraceHeader)
}
