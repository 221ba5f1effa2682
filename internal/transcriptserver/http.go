package transcriptserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
)

// TranscriptPath is the single transcript endpoint.
const TranscriptPath = "/api/transcript"

// Client-facing error messages.
const (
	MsgInvalidInput = "Missing or invalid video identifier. Use ?id=VIDEO_ID or ?url=YOUTUBE_URL"
	MsgNotAvailable = "Transcript not available"
	MsgInternal     = "Internal error"
)

// TranscriptFetcher is satisfied by *transcripts.Fetcher.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (engine.TranscriptResult, error)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewHandler returns the HTTP API: the transcript endpoint plus /health and /metrics.
func NewHandler(f TranscriptFetcher) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(TranscriptPath, TranscriptHandler(f))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, engine.FormatMetrics())
	})
	return mux
}

// TranscriptHandler serves GET ?id=VIDEO_ID or ?url=YOUTUBE_URL.
// Every failure is turned into a JSON error body here; nothing escapes.
func TranscriptHandler(f TranscriptFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				engine.IncrInternalErrors()
				slog.Error("transcript handler panic", slog.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: MsgInternal, Details: fmt.Sprint(rec)})
			}
		}()

		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
			return
		}

		q := r.URL.Query()
		videoID, ok := transcripts.ResolveVideoID(q.Get("id"), q.Get("url"))
		if !ok {
			engine.IncrInvalidInput()
			writeJSON(w, http.StatusBadRequest, errorBody{Error: MsgInvalidInput})
			return
		}

		engine.IncrTranscriptRequests()
		ctx, cancel := context.WithTimeout(r.Context(), engine.Cfg.RequestTimeout)
		defer cancel()
		var result engine.TranscriptResult
		err := engine.TrackOperation(ctx, "transcript", func(ctx context.Context) error {
			var err error
			result, err = f.Fetch(ctx, videoID)
			return err
		})
		status, body := responseFor(result, err)
		if err != nil {
			slog.Warn("transcript request failed",
				slog.String("id", videoID), slog.Int("status", status), slog.Any("error", err))
		}
		writeJSON(w, status, body)
		slog.Debug("transcript request",
			slog.String("id", videoID), slog.Int("status", status), slog.Duration("elapsed", time.Since(start)))
	}
}

// responseFor maps a fetch outcome onto an HTTP status and body.
func responseFor(result engine.TranscriptResult, err error) (int, any) {
	switch {
	case err == nil:
		return http.StatusOK, result
	case engine.IsNotAvailable(err):
		engine.IncrNotAvailable()
		return http.StatusNotFound, errorBody{Error: MsgNotAvailable, Details: err.Error()}
	default:
		engine.IncrInternalErrors()
		return http.StatusInternalServerError, errorBody{Error: MsgInternal, Details: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{Error: MsgInternal, Details: err.Error()})
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
