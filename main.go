// go_transcript — YouTube transcript service.
//
// Serves GET /api/transcript?id=VIDEO_ID|url=YOUTUBE_URL as JSON on API_PORT and
// exposes the same lookup as the youtube_transcript MCP tool on MCP_PORT.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/anatolykoptev/go_transcript/internal/transcriptserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	apiPort = env.Str("API_PORT", "8890")
	mcpPort = env.Str("MCP_PORT", "8891")
)

// writeSlack leaves room to write the error body after a lookup times out.
const writeSlack = 5 * time.Second

func main() {
	if err := initEngine(); err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}

	fetcher := transcripts.NewFetcher(sources.NewYouTubeClient(engine.Cfg), engine.Cfg.Languages)

	slog.Info("starting go_transcript",
		slog.String("api_port", apiPort),
		slog.String("mcp_port", mcpPort),
		slog.Any("languages", engine.Cfg.Languages),
	)

	api := &http.Server{
		Addr:              ":" + apiPort,
		Handler:           transcriptserver.NewHandler(fetcher),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      engine.Cfg.RequestTimeout + writeSlack,
	}
	go func() {
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)

	transcriptserver.RegisterTools(server, fetcher)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: engine.Cfg.RequestTimeout + writeSlack,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() error {
	c := engine.Config{
		Languages:       env.List("TRANSCRIPT_LANGUAGES", "en"),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", 15*time.Second),
		RequestTimeout:  env.Duration("REQUEST_TIMEOUT", 25*time.Second),
		ProxyURL:        env.Str("YOUTUBE_PROXY", ""),
		RateLimit:       env.Float("YOUTUBE_RATE_LIMIT", 0),
		MaxRetries:      env.Int("YOUTUBE_MAX_RETRIES", 0),
		SlowOpThreshold: env.Duration("SLOW_OP_THRESHOLD", 5*time.Second),
		YouTubeBaseURL:  env.Str("YOUTUBE_BASE_URL", "https://www.youtube.com"),
	}

	hc, err := engine.NewHTTPClient(c.ProxyURL, c.FetchTimeout)
	if err != nil {
		return err
	}
	c.HTTPClient = hc
	if c.ProxyURL != "" {
		slog.Info("outbound proxy configured")
	}

	engine.Init(c)
	return nil
}
