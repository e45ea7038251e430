package router

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"github.com/Suhaibinator/LRouter/pkg/middleware"
	"go.uber.org/zap"
)

// Router owns a route table and an ordered sequence of middleware steps,
// terminated by the built-in dispatch step. Both are built at composition
// time and treated as read-only while a request is in flight. A Router may
// be mounted inside another Router at a path prefix, forming a tree.
type Router struct {
	logger      *zap.Logger
	routes      routeTable
	middlewares []common.Middleware
}

// New creates a Router with the given configuration.
func New(config RouterConfig) *Router {
	// Set up the logger, falling back to a production logger and then a
	// no-op logger, matching the rest of the framework.
	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	r := &Router{
		logger: logger,
		routes: make(routeTable),
	}

	if config.EnableTracing {
		r.middlewares = append(r.middlewares, middleware.Trace())
	}
	r.middlewares = append(r.middlewares, config.Middlewares...)

	return r
}

// Handle registers handler for the given method and exact path. Duplicate
// registrations are kept, with the earliest winning at lookup time.
func (r *Router) Handle(method, path string, handler common.HandlerFunc) {
	r.routes.register(method, path, handler)
}

// Get registers handler for GET requests at path.
func (r *Router) Get(path string, handler common.HandlerFunc) {
	r.Handle(http.MethodGet, path, handler)
}

// Post registers handler for POST requests at path.
func (r *Router) Post(path string, handler common.HandlerFunc) {
	r.Handle(http.MethodPost, path, handler)
}

// Put registers handler for PUT requests at path.
func (r *Router) Put(path string, handler common.HandlerFunc) {
	r.Handle(http.MethodPut, path, handler)
}

// Delete registers handler for DELETE requests at path.
func (r *Router) Delete(path string, handler common.HandlerFunc) {
	r.Handle(http.MethodDelete, path, handler)
}

// All registers handler for requests of any method at path.
func (r *Router) All(path string, handler common.HandlerFunc) {
	r.Handle(MethodAll, path, handler)
}

// Use appends a middleware step. Steps run in registration order, always
// before route dispatch.
func (r *Router) Use(mw common.Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

// Mount delegates paths under prefix to child. The mount step peeks before
// it delegates: the prefix is stripped and the child's own route table is
// consulted without running its middleware. On a miss the original path is
// restored and the chain continues, so a prefix can be shared by several
// mounted routers or fall through to a parent catch-all without the path
// being stripped twice. On a hit the child's full chain runs against the
// rewritten request.
func (r *Router) Mount(prefix string, child *Router) {
	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		if !strings.HasPrefix(req.Path, prefix) {
			next(nil)
			return
		}
		req.RemovePathPrefix(prefix)
		if !child.hasRoute(req.Method, req.Path) {
			req.AddPathPrefix(prefix)
			next(nil)
			return
		}
		child.runChain(ctx, req, res)
	})
}

// hasRoute reports whether the router's own table matches (method, path)
// exactly. It does not run middleware and does not consult mounted children.
func (r *Router) hasRoute(method, path string) bool {
	_, ok := r.routes.lookup(method, path)
	return ok
}

// Dispatch runs req through the middleware chain and route table and returns
// the settled result. It blocks until some step or handler finishes the
// response; a chain that neither finishes nor continues leaves the
// invocation pending until ctx is done, in which case the context error is
// returned. A panic in any step or handler settles the response as a 500.
func (r *Router) Dispatch(ctx context.Context, req *common.Request) (common.Result, error) {
	done := make(chan common.Result, 1)
	res := common.NewResponse(func(result common.Result) {
		done <- result
	})

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("method", req.Method),
					zap.String("path", req.Path),
				)
				res.Status(http.StatusInternalServerError).JSON(map[string]string{"message": "internal server error"})
			}
		}()
		r.runChain(ctx, req, res)
	}()

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return common.Result{}, ctx.Err()
	}
}

// runChain executes the middleware steps in registration order, terminating
// with route dispatch. Each step receives a bound advance closure; mutation
// to the request persists forward through the chain.
func (r *Router) runChain(ctx context.Context, req *common.Request, res *common.Response) {
	i := 0
	var advance common.Next
	advance = func(err error) {
		if err != nil {
			// The error-first convention is accepted but not routed
			// anywhere; surfacing it is up to user middleware.
			r.logger.Debug("Continuation called with error",
				zap.Error(err),
				zap.String("method", req.Method),
				zap.String("path", req.Path),
			)
		}
		if i < len(r.middlewares) {
			step := r.middlewares[i]
			i++
			step(ctx, req, res, advance)
			return
		}
		r.dispatch(ctx, req, res)
	}
	advance(nil)
}

// dispatch is the terminal chain step: route lookup and handler invocation,
// or the built-in not-found handler on a miss.
func (r *Router) dispatch(ctx context.Context, req *common.Request, res *common.Response) {
	handler, ok := r.routes.lookup(req.Method, req.Path)
	if !ok {
		r.logger.Debug("No route matched",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)
		res.Status(http.StatusNotFound).JSON(map[string]string{"message": "not found"})
		return
	}
	handler(ctx, req, res)
}
