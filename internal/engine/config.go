package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	Languages       []string      // transcript language preference, most preferred first
	FetchTimeout    time.Duration // per outbound call
	RequestTimeout  time.Duration // whole transcript lookup, all outbound calls included
	ProxyURL        string        // http, https or socks5; empty = direct
	RateLimit       float64       // outbound YouTube requests per second, 0 = unlimited
	MaxRetries      int           // transport retries on 429/5xx, 0 = single attempt
	SlowOpThreshold time.Duration
	YouTubeBaseURL  string // overridable for tests
	HTTPClient      *http.Client
}

// DefaultLanguages is the language preference used when none is configured.
var DefaultLanguages = []string{"en"}

var cfg = Config{
	Languages:       DefaultLanguages,
	FetchTimeout:    15 * time.Second,
	RequestTimeout:  25 * time.Second,
	SlowOpThreshold: 5 * time.Second,
	YouTubeBaseURL:  "https://www.youtube.com",
	HTTPClient:      &http.Client{Timeout: 15 * time.Second},
}

// Cfg exposes the engine configuration for sub-packages (transcripts, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero-valued fields keep their defaults.
func Init(c Config) {
	if len(c.Languages) == 0 {
		c.Languages = DefaultLanguages
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 25 * time.Second
	}
	if c.SlowOpThreshold <= 0 {
		c.SlowOpThreshold = 5 * time.Second
	}
	if c.YouTubeBaseURL == "" {
		c.YouTubeBaseURL = "https://www.youtube.com"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	cfg = c
	Cfg = &cfg
}
