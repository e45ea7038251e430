package common

import (
	"encoding/json"
	"net/http"
	"sync"
)

const (
	// ContentTypeHTML is the default response content type.
	ContentTypeHTML = "text/html"

	// ContentTypeJSON is the content type set by Response.JSON.
	ContentTypeJSON = "application/json"
)

// Result is the settled outcome of a Response.
type Result struct {
	StatusCode  int
	Body        string
	ContentType string
}

// Response accumulates status, body and content type for one invocation and
// settles exactly once. Mutators return the Response for chaining; Send and
// JSON finish it. The first finish wins: once settled, further mutation has
// no observable effect.
type Response struct {
	mu          sync.Mutex
	statusCode  int
	body        string
	contentType string
	finished    bool
	resolve     func(Result)
	hooks       []func(Result)
}

// NewResponse creates a Response whose first finish invokes resolve with the
// settled Result. resolve may be nil.
func NewResponse(resolve func(Result)) *Response {
	return &Response{
		statusCode:  http.StatusOK,
		contentType: ContentTypeHTML,
		resolve:     resolve,
	}
}

// Status sets the status code.
func (r *Response) Status(code int) *Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finished {
		r.statusCode = code
	}
	return r
}

// Send sets the raw body and finishes the response.
func (r *Response) Send(body string) *Response {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return r
	}
	r.body = body
	r.mu.Unlock()
	return r.finish()
}

// JSON serializes v, sets the JSON content type and finishes the response.
// A value that cannot be serialized finishes with a 500 and an empty body.
func (r *Response) JSON(v any) *Response {
	body, err := json.Marshal(v)
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return r
	}
	if err != nil {
		r.statusCode = http.StatusInternalServerError
		r.body = ""
	} else {
		r.body = string(body)
	}
	r.contentType = ContentTypeJSON
	r.mu.Unlock()
	return r.finish()
}

// OnFinish registers a hook invoked with the settled Result when the
// response finishes. A hook registered after the finish runs immediately.
// Hooks let observing middleware see the outcome without wrapping a writer.
func (r *Response) OnFinish(hook func(Result)) {
	r.mu.Lock()
	if r.finished {
		result := r.result()
		r.mu.Unlock()
		hook(result)
		return
	}
	r.hooks = append(r.hooks, hook)
	r.mu.Unlock()
}

// Finished reports whether the response has settled.
func (r *Response) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *Response) finish() *Response {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return r
	}
	r.finished = true
	result := r.result()
	hooks := r.hooks
	r.hooks = nil
	resolve := r.resolve
	r.mu.Unlock()

	// Hooks run in registration order, before the result is resolved.
	for _, hook := range hooks {
		hook(result)
	}
	if resolve != nil {
		resolve(result)
	}
	return r
}

// result snapshots the current state. Callers must hold mu.
func (r *Response) result() Result {
	return Result{
		StatusCode:  r.statusCode,
		Body:        r.body,
		ContentType: r.contentType,
	}
}
