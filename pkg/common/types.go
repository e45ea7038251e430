// Package common provides the shared request/response model and handler
// types used across the LRouter framework.
package common

import "context"

// HandlerFunc handles a dispatched request. A handler must finish the
// Response, directly or through code it calls; a handler that returns
// without finishing leaves the invocation pending.
type HandlerFunc func(ctx context.Context, req *Request, res *Response)

// Next advances the middleware chain to the following step. The error
// argument follows the error-first convention; the dispatch terminator
// accepts it but does not act on it.
type Next func(err error)

// Middleware is a single step in the request pipeline. A step may inspect or
// mutate the request, finish the response to short-circuit the chain, or
// call next exactly once to proceed to the following step.
type Middleware func(ctx context.Context, req *Request, res *Response, next Next)
