package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig defines configuration for the prometheus metrics middleware.
type MetricsConfig struct {
	Namespace string // Namespace for metrics
	Subsystem string // Subsystem for metrics

	// Registerer the collectors are registered with. Defaults to the
	// prometheus default registerer.
	Registerer prometheus.Registerer
}

// Metrics creates a middleware that records per-request counters and latency
// histograms, labeled by method, path and status. Collectors are registered
// once when the middleware is built; requests observe via the response
// finish hook so short-circuited responses are counted too.
func Metrics(config MetricsConfig) common.Middleware {
	registerer := config.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "requests_total",
		Help:      "Requests dispatched, by method, path and status.",
	}, []string{"method", "path", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Request latency from chain entry to response finish.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	registerer.MustRegister(requests, latency)

	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		start := time.Now()

		// Label with the path as it arrived, not the mount-rewritten one.
		method := req.Method
		path := req.Path

		res.OnFinish(func(result common.Result) {
			requests.WithLabelValues(method, path, strconv.Itoa(result.StatusCode)).Inc()
			latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		})

		next(nil)
	}
}
