package router

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter() *Router {
	return New(RouterConfig{Logger: zap.NewNop()})
}

// TestDispatchExactMatch tests that a registered handler is invoked exactly
// once for its exact method and path
func TestDispatchExactMatch(t *testing.T) {
	r := newTestRouter()

	calls := 0
	r.Get("/widgets", func(ctx context.Context, req *common.Request, res *common.Response) {
		calls++
		res.Send("widgets")
	})

	otherCalls := 0
	r.Get("/other", func(ctx context.Context, req *common.Request, res *common.Response) {
		otherCalls++
		res.Send("other")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/widgets"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected handler to be called once, got %d", calls)
	}
	if otherCalls != 0 {
		t.Errorf("Expected other handler not to be called, got %d calls", otherCalls)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, result.StatusCode)
	}
	if result.Body != "widgets" {
		t.Errorf("Expected body %q, got %q", "widgets", result.Body)
	}
}

// TestDispatchMethodMismatch tests that a path registered under another
// method does not match
func TestDispatchMethodMismatch(t *testing.T) {
	r := newTestRouter()
	r.Post("/widgets", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("created")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/widgets"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, result.StatusCode)
	}
}

// TestDispatchAllFallback tests that an ALL registration matches a request
// whose method has no exact-path match
func TestDispatchAllFallback(t *testing.T) {
	r := newTestRouter()
	r.All("/anything", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("all")
	})

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		result, err := r.Dispatch(context.Background(), common.NewRequest(method, "/anything"))
		if err != nil {
			t.Fatalf("Dispatch failed for %s: %v", method, err)
		}
		if result.Body != "all" {
			t.Errorf("Expected ALL handler for %s, got body %q", method, result.Body)
		}
	}
}

// TestDispatchMethodBeatsAll tests that an exact method match wins over an
// ALL registration at the same path
func TestDispatchMethodBeatsAll(t *testing.T) {
	r := newTestRouter()
	r.All("/widgets", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("all")
	})
	r.Get("/widgets", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("get")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/widgets"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.Body != "get" {
		t.Errorf("Expected method bucket to win, got body %q", result.Body)
	}
}

// TestDispatchNotFound tests the built-in 404 handler
func TestDispatchNotFound(t *testing.T) {
	r := newTestRouter()

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/missing"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if result.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, result.StatusCode)
	}
	if result.Body != `{"message":"not found"}` {
		t.Errorf("Expected body %q, got %q", `{"message":"not found"}`, result.Body)
	}
	if result.ContentType != common.ContentTypeJSON {
		t.Errorf("Expected content type %q, got %q", common.ContentTypeJSON, result.ContentType)
	}
}

// TestDuplicateRegistrationFirstWins tests that the earliest registration
// for a (method, path) pair wins at lookup time
func TestDuplicateRegistrationFirstWins(t *testing.T) {
	r := newTestRouter()
	r.Get("/dup", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("first")
	})
	r.Get("/dup", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("second")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/dup"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.Body != "first" {
		t.Errorf("Expected first registration to win, got body %q", result.Body)
	}
}

// TestNoPathNormalization tests that matching is case-sensitive and does not
// normalize trailing slashes
func TestNoPathNormalization(t *testing.T) {
	r := newTestRouter()
	r.Get("/widgets", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("widgets")
	})

	for _, path := range []string{"/widgets/", "/Widgets", "/widgets//"} {
		result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, path))
		if err != nil {
			t.Fatalf("Dispatch failed for %q: %v", path, err)
		}
		if result.StatusCode != http.StatusNotFound {
			t.Errorf("Expected %q not to match, got status %d", path, result.StatusCode)
		}
	}
}

// TestMiddlewareOrder tests that middleware runs in registration order
// before dispatch, and that request mutation persists forward
func TestMiddlewareOrder(t *testing.T) {
	r := newTestRouter()

	var order []string
	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		order = append(order, "first")
		req.Headers.Set("X-Seen", "first")
		next(nil)
	})
	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		order = append(order, "second")
		if req.Headers.Get("X-Seen") != "first" {
			t.Error("Expected request mutation from earlier middleware to persist")
		}
		next(nil)
	})
	r.Get("/", func(ctx context.Context, req *common.Request, res *common.Response) {
		order = append(order, "handler")
		res.Send("ok")
	})

	if _, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/")); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	expected := []string{"first", "second", "handler"}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d steps, got %d: %v", len(expected), len(order), order)
	}
	for i, step := range expected {
		if order[i] != step {
			t.Errorf("Expected %q at position %d, got %q", step, i, order[i])
		}
	}
}

// TestMiddlewareShortCircuit tests that a middleware finishing the response
// prevents later steps and dispatch from running
func TestMiddlewareShortCircuit(t *testing.T) {
	r := newTestRouter()

	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		res.Status(http.StatusForbidden).JSON(map[string]string{"message": "forbidden"})
	})

	handlerCalled := false
	r.Get("/", func(ctx context.Context, req *common.Request, res *common.Response) {
		handlerCalled = true
		res.Send("ok")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if handlerCalled {
		t.Error("Expected handler not to run after short-circuit")
	}
	if result.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, result.StatusCode)
	}
}

// TestMiddlewareHalt tests that a middleware which neither finishes nor
// continues prevents dispatch entirely
func TestMiddlewareHalt(t *testing.T) {
	r := newTestRouter()

	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		// Neither next nor finish: the chain halts here.
	})

	handlerCalled := false
	r.Get("/", func(ctx context.Context, req *common.Request, res *common.Response) {
		handlerCalled = true
		res.Send("ok")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Dispatch(ctx, common.NewRequest(http.MethodGet, "/"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if handlerCalled {
		t.Error("Expected handler not to run when the chain halts")
	}
}

// TestNextErrorIgnoredByTerminator tests that a continuation error does not
// change dispatch behavior
func TestNextErrorIgnoredByTerminator(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := New(RouterConfig{Logger: zap.New(core)})

	r.Use(func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		next(errors.New("upstream failure"))
	})
	r.Get("/", func(ctx context.Context, req *common.Request, res *common.Response) {
		res.Send("ok")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.Body != "ok" {
		t.Errorf("Expected dispatch to proceed despite next(err), got body %q", result.Body)
	}
	if logs.FilterMessage("Continuation called with error").Len() != 1 {
		t.Error("Expected the ignored continuation error to be logged")
	}
}

// TestDispatchPanicRecovery tests that a panicking handler settles as 500
func TestDispatchPanicRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := New(RouterConfig{Logger: zap.New(core)})

	r.Get("/boom", func(ctx context.Context, req *common.Request, res *common.Response) {
		panic("handler exploded")
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/boom"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, result.StatusCode)
	}
	if result.Body != `{"message":"internal server error"}` {
		t.Errorf("Expected 500 JSON body, got %q", result.Body)
	}
	if logs.FilterMessage("Panic recovered").Len() != 1 {
		t.Error("Expected the panic to be logged")
	}
}

// TestAsyncHandlerFinish tests a handler that finishes from another
// goroutine after an I/O-style suspension
func TestAsyncHandlerFinish(t *testing.T) {
	r := newTestRouter()
	r.Get("/slow", func(ctx context.Context, req *common.Request, res *common.Response) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			res.Send("eventually")
		}()
	})

	result, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/slow"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if result.Body != "eventually" {
		t.Errorf("Expected body %q, got %q", "eventually", result.Body)
	}
}

// TestEnableTracing tests that the trace middleware is attached first
func TestEnableTracing(t *testing.T) {
	r := New(RouterConfig{Logger: zap.NewNop(), EnableTracing: true})

	var traceID string
	r.Get("/", func(ctx context.Context, req *common.Request, res *common.Response) {
		traceID = req.Headers.Get("X-Trace-Id")
		res.Send("ok")
	})

	if _, err := r.Dispatch(context.Background(), common.NewRequest(http.MethodGet, "/")); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if traceID == "" {
		t.Error("Expected a trace ID to be assigned")
	}
}
