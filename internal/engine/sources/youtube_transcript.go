package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"golang.org/x/time/rate"
)

// YouTube transcript fetching.
// Catalog:  watch page ytInitialPlayerResponse → captionTracks (works from any IP)
// Fallback: ANDROID Innertube /player → captionTracks (when the page has no player response)
// Track:    timedtext XML at the track's baseUrl

// YouTubeClient is the YouTube implementation of engine.CaptionProvider.
// Safe for concurrent use.
type YouTubeClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	retry      engine.RetryConfig
}

var _ engine.CaptionProvider = (*YouTubeClient)(nil)

// NewYouTubeClient builds a client from the engine configuration.
func NewYouTubeClient(c *engine.Config) *YouTubeClient {
	limit := rate.Inf
	if c.RateLimit > 0 {
		limit = rate.Limit(c.RateLimit)
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.FetchTimeout}
	}
	return &YouTubeClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(c.YouTubeBaseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		retry:      engine.ProviderRetryConfig(c.MaxRetries),
	}
}

// do paces and sends one outbound request. build is called once per attempt.
func (c *YouTubeClient) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := build()
		if err != nil {
			return nil, err
		}
		engine.IncrYouTubeRequests()
		return c.httpClient.Do(req)
	})
	if err != nil {
		engine.IncrYouTubeErrors()
		return nil, err
	}
	return resp, nil
}

// GetTranscript fetches the best caption track for langs.
func (c *YouTubeClient) GetTranscript(ctx context.Context, videoID string, langs []string) ([]engine.CaptionSnippet, error) {
	catalog, err := c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	track, err := catalog.FindTranscript(langs)
	if err != nil {
		return nil, err
	}
	return c.FetchTrack(ctx, track)
}

// ListTranscripts returns every caption track the video offers.
func (c *YouTubeClient) ListTranscripts(ctx context.Context, videoID string) (*engine.TranscriptCatalog, error) {
	playerResp, err := c.fetchWatchPlayer(ctx, videoID)
	if errors.Is(err, errNoPlayerResponse) {
		slog.Warn("youtube: no player response in watch page, trying android player",
			slog.String("id", videoID))
		playerResp, err = c.postAndroidPlayer(ctx, videoID)
	}
	if err != nil {
		return nil, err
	}
	return catalogFromPlayer(videoID, playerResp)
}

var errNoPlayerResponse = errors.New("ytInitialPlayerResponse not found in watch page")

// fetchWatchPlayer scrapes the watch page HTML and extracts ytInitialPlayerResponse.
func (c *YouTubeClient) fetchWatchPlayer(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	watchURL := c.baseURL + "/watch?v=" + videoID

	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		engine.SetBrowserHeaders(req)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, errNoPlayerResponse
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &playerResp, nil
}

// catalogFromPlayer classifies a player response into a catalog or a provider error.
func catalogFromPlayer(videoID string, p *innertubePlayerResp) (*engine.TranscriptCatalog, error) {
	if p.Captions == nil {
		if ps := p.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			if ps.Status == "ERROR" {
				return nil, engine.NewProviderError(engine.ErrVideoUnavailable, videoID, ps.Reason)
			}
			return nil, fmt.Errorf("video %s is unplayable: %s: %s", videoID, ps.Status, ps.Reason)
		}
		return nil, engine.NewProviderError(engine.ErrTranscriptsDisabled, videoID, "")
	}

	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, engine.NewProviderError(engine.ErrTranscriptsDisabled, videoID, "")
	}

	catalog := &engine.TranscriptCatalog{VideoID: videoID}
	for _, t := range tracks {
		ct := engine.CaptionTrack{
			VideoID:      videoID,
			LanguageCode: t.LanguageCode,
			Language:     t.Name.String(),
			Generated:    t.Kind == "asr",
			BaseURL:      t.BaseURL,
		}
		if ct.Generated {
			catalog.Generated = append(catalog.Generated, ct)
		} else {
			catalog.Manual = append(catalog.Manual, ct)
		}
	}
	return catalog, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// FetchTrack downloads and parses one caption track.
func (c *YouTubeClient) FetchTrack(ctx context.Context, track engine.CaptionTrack) ([]engine.CaptionSnippet, error) {
	if needsPoToken(track.BaseURL) {
		return nil, fmt.Errorf("caption track %s of %s requires a PoToken", track.LanguageCode, track.VideoID)
	}
	trackURL := strings.Replace(track.BaseURL, "&fmt=srv3", "", 1)

	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
		if err != nil {
			return nil, err
		}
		engine.SetBrowserHeaders(req)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// parseTimedText converts timedtext XML into snippets in document order.
func parseTimedText(body []byte) ([]engine.CaptionSnippet, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	out := make([]engine.CaptionSnippet, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		start, err := strconv.ParseFloat(line.Start, 64)
		if err != nil {
			return nil, fmt.Errorf("timedtext start %q: %w", line.Start, err)
		}
		dur := 0.0
		if line.Dur != "" {
			if dur, err = strconv.ParseFloat(line.Dur, 64); err != nil {
				return nil, fmt.Errorf("timedtext dur %q: %w", line.Dur, err)
			}
		}
		out = append(out, engine.CaptionSnippet{
			Text:     engine.CleanCaption(line.Text),
			Start:    start,
			Duration: dur,
		})
	}
	return out, nil
}
