package engine

import (
	"context"
	"net/http"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth helpers for engine consumers.
type RetryConfig = stealth.RetryConfig

// DefaultRetryConfig is the backoff shape for YouTube calls.
var DefaultRetryConfig = stealth.DefaultRetryConfig

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }

func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}

// ProviderRetryConfig returns DefaultRetryConfig with the given retry budget.
// 0 means a single attempt.
func ProviderRetryConfig(maxRetries int) RetryConfig {
	rc := DefaultRetryConfig
	rc.MaxRetries = max(maxRetries, 0)
	return rc
}

// SetBrowserHeaders applies ChromeHeaders to req. Accept-Encoding is left to
// the transport so response bodies are decompressed transparently.
func SetBrowserHeaders(req *http.Request) {
	for k, v := range ChromeHeaders() {
		if strings.EqualFold(k, "accept-encoding") {
			continue
		}
		req.Header.Set(k, v)
	}
}
