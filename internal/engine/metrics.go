package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests  atomic.Int64
	InvalidInput        atomic.Int64
	TranscriptFallbacks atomic.Int64
	NotAvailable        atomic.Int64
	InternalErrors      atomic.Int64
	YouTubeRequests     atomic.Int64
	YouTubeErrors       atomic.Int64
}

var metricKeys = []string{
	"transcript_requests", "invalid_input",
	"transcript_fallbacks", "not_available", "internal_errors",
	"youtube_requests", "youtube_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"invalid_input":        metrics.InvalidInput.Load(),
		"transcript_fallbacks": metrics.TranscriptFallbacks.Load(),
		"not_available":        metrics.NotAvailable.Load(),
		"internal_errors":      metrics.InternalErrors.Load(),
		"youtube_requests":     metrics.YouTubeRequests.Load(),
		"youtube_errors":       metrics.YouTubeErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for transcripts/ and transcriptserver/.
func IncrTranscriptRequests()  { metrics.TranscriptRequests.Add(1) }
func IncrInvalidInput()        { metrics.InvalidInput.Add(1) }
func IncrTranscriptFallbacks() { metrics.TranscriptFallbacks.Add(1) }
func IncrNotAvailable()        { metrics.NotAvailable.Add(1) }
func IncrInternalErrors()      { metrics.InternalErrors.Add(1) }

// Incrementors for sources/ sub-package.
func IncrYouTubeRequests() { metrics.YouTubeRequests.Add(1) }
func IncrYouTubeErrors()   { metrics.YouTubeErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than the
// configured slow-operation threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > Cfg.SlowOpThreshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
