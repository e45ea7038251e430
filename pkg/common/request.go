package common

import (
	"net/http"
	"strings"
)

// Request carries one invocation's method, path, headers and decoded body
// through the middleware chain. A Request is built once per invocation by
// the platform adapter and owned by a single dispatch; it is never shared
// between concurrent executions.
type Request struct {
	Method  string
	Path    string
	Headers http.Header
	Body    any
}

// NewRequest creates a Request with empty headers and no body.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(http.Header),
	}
}

// RemovePathPrefix strips prefix from the front of the path. It is used by
// mounted routers before delegating; AddPathPrefix with the same prefix is
// its exact inverse.
func (r *Request) RemovePathPrefix(prefix string) {
	r.Path = strings.TrimPrefix(r.Path, prefix)
}

// AddPathPrefix restores a previously removed prefix.
func (r *Request) AddPathPrefix(prefix string) {
	r.Path = prefix + r.Path
}
