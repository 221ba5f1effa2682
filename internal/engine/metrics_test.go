package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFormatMetrics(t *testing.T) {
	IncrTranscriptRequests()
	IncrYouTubeRequests()

	out := FormatMetrics()
	for _, k := range metricKeys {
		if !strings.Contains(out, k+" ") {
			t.Errorf("FormatMetrics() missing key %q", k)
		}
	}
	if got := GetMetrics()["transcript_requests"]; got < 1 {
		t.Errorf("transcript_requests = %d, want >= 1", got)
	}
}

func TestTrackOperationReturnsError(t *testing.T) {
	want := errors.New("boom")
	err := TrackOperation(context.Background(), "test", func(context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("TrackOperation() error = %v, want %v", err, want)
	}
}
