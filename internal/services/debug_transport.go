package services

import (
	"net/http"
	"strings"
	"time"

	"wanna/internal/logger"
)

// NewDebugHTTPClient returns the HTTP client used by every provider client.
// Each round trip is logged at debug level with sensitive headers masked.
func NewDebugHTTPClient() *http.Client {
	return &http.Client{Transport: &debugTransport{base: http.DefaultTransport}}
}

// debugTransport implements http.RoundTripper with request logging.
type debugTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := dt.base.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug("LLM request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"headers", sanitizeHeaders(req.Header),
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return resp, err
	}

	logger.Debug("LLM request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", sanitizeHeaders(req.Header),
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds())
	return resp, nil
}

// sanitizeHeaders copies headers with credentials masked.
func sanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for name, values := range headers {
		value := strings.Join(values, ",")
		lowerName := strings.ToLower(name)
		if strings.Contains(lowerName, "authorization") ||
			strings.Contains(lowerName, "api-key") ||
			strings.Contains(lowerName, "token") {
			if len(value) > 10 {
				value = value[:10] + "***[MASKED]***"
			} else {
				value = "***[MASKED]***"
			}
		}
		sanitized[name] = value
	}
	return sanitized
}
