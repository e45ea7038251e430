package middleware

import (
	"context"
	"strings"

	"github.com/Suhaibinator/LRouter/pkg/common"
)

// IPSourceType defines the source for client IP addresses
type IPSourceType string

const (
	// IPSourceXForwardedFor uses the X-Forwarded-For header
	IPSourceXForwardedFor IPSourceType = "x_forwarded_for"

	// IPSourceXRealIP uses the X-Real-IP header
	IPSourceXRealIP IPSourceType = "x_real_ip"

	// IPSourceCustomHeader uses a custom header specified in the configuration
	IPSourceCustomHeader IPSourceType = "custom_header"
)

// ClientIPHeader is the request header the middleware writes the extracted
// client IP to, where handlers and later middleware read it back.
const ClientIPHeader = "X-Client-Ip"

// IPConfig defines configuration for IP extraction
type IPConfig struct {
	// Source specifies where to extract the client IP from
	Source IPSourceType

	// CustomHeader is the name of the custom header to use when Source is IPSourceCustomHeader
	CustomHeader string
}

// DefaultIPConfig returns the default IP configuration
func DefaultIPConfig() *IPConfig {
	return &IPConfig{
		Source: IPSourceXForwardedFor,
	}
}

// ClientIP returns the client IP extracted by ClientIPMiddleware, or an
// empty string if the middleware did not run.
func ClientIP(req *common.Request) string {
	return req.Headers.Get(ClientIPHeader)
}

// ClientIPMiddleware creates a middleware that extracts the client IP from
// the configured proxy header and records it on the request. API Gateway
// always sits behind at least one proxy, so the forwarded headers are the
// only source available.
func ClientIPMiddleware(config *IPConfig) common.Middleware {
	if config == nil {
		config = DefaultIPConfig()
	}

	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		if ip := extractClientIP(req, config); ip != "" {
			req.Headers.Set(ClientIPHeader, ip)
		}
		next(nil)
	}
}

// extractClientIP extracts the client IP from the request based on the configuration
func extractClientIP(req *common.Request, config *IPConfig) string {
	var ip string

	switch config.Source {
	case IPSourceXRealIP:
		ip = req.Headers.Get("X-Real-IP")
	case IPSourceCustomHeader:
		ip = req.Headers.Get(config.CustomHeader)
	default:
		ip = extractIPFromXForwardedFor(req)
	}

	return cleanIP(ip)
}

// extractIPFromXForwardedFor extracts the client IP from the X-Forwarded-For header.
// The header contains a comma-separated list of IPs, with the leftmost being the original client.
func extractIPFromXForwardedFor(req *common.Request) string {
	xff := req.Headers.Get("X-Forwarded-For")
	if xff == "" {
		return ""
	}

	ips := strings.Split(xff, ",")
	return strings.TrimSpace(ips[0])
}

// cleanIP removes the port from an IP address if present
func cleanIP(ip string) string {
	// IPv6 addresses with ports are formatted as [IPv6]:port
	if strings.HasPrefix(ip, "[") {
		end := strings.LastIndex(ip, "]")
		if end > 0 {
			return ip[1:end]
		}
		return ip
	}

	// An address with multiple colons is IPv6 without a port
	if strings.Count(ip, ":") > 1 {
		return ip
	}

	if end := strings.LastIndex(ip, ":"); end > 0 {
		return ip[:end]
	}

	return ip
}
