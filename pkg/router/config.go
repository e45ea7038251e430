// Package router implements an exact-match request router with a
// continuation-style middleware pipeline. It processes one logical request
// per serverless invocation and never opens a socket.
package router

import (
	"github.com/Suhaibinator/LRouter/pkg/common"
	"go.uber.org/zap"
)

// RouterConfig defines the configuration for a Router. Construction is
// side-effect-free: routes and middleware are owned by the Router instance,
// never by a module-level registry.
type RouterConfig struct {
	Logger        *zap.Logger         // Logger for all router operations
	Middlewares   []common.Middleware // Middlewares applied before any route dispatch, in order
	EnableTracing bool                // Attach the trace middleware as the first chain step
}
