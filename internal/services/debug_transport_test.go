package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer sk-1234567890abcdef")
	headers.Set("X-Api-Key", "short")
	headers.Set("Content-Type", "application/json")

	sanitized := sanitizeHeaders(headers)

	assert.Equal(t, "Bearer sk-***[MASKED]***", sanitized["Authorization"])
	assert.Equal(t, "***[MASKED]***", sanitized["X-Api-Key"])
	assert.Equal(t, "application/json", sanitized["Content-Type"])
}

func TestDebugHTTPClientPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	resp, err := NewDebugHTTPClient().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
