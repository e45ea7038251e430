package router

import "github.com/Suhaibinator/LRouter/pkg/common"

// MethodAll is the wildcard method bucket: a route registered under it
// matches a request of any method at its exact path.
const MethodAll = "ALL"

// route pairs an exact path with its handler.
type route struct {
	path    string
	handler common.HandlerFunc
}

// routeTable maps HTTP method names to their routes in registration order.
// Matching is exact-string and case-sensitive: no patterns, no parameters,
// no trailing-slash normalization. Duplicate (method, path) registrations
// are all kept; the earliest wins at lookup time.
type routeTable map[string][]route

func (t routeTable) register(method, path string, handler common.HandlerFunc) {
	t[method] = append(t[method], route{path: path, handler: handler})
}

// lookup returns the first handler registered for (method, path), falling
// back to the MethodAll bucket under the same exact-match rule.
func (t routeTable) lookup(method, path string) (common.HandlerFunc, bool) {
	for _, rt := range t[method] {
		if rt.path == path {
			return rt.handler, true
		}
	}
	if method != MethodAll {
		for _, rt := range t[MethodAll] {
			if rt.path == path {
				return rt.handler, true
			}
		}
	}
	return nil, false
}
