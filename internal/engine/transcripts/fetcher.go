// Package transcripts resolves YouTube video identifiers and turns caption
// provider output into TranscriptResult values.
package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Fetcher retrieves one video's transcript from a caption provider.
type Fetcher struct {
	provider engine.CaptionProvider
	langs    []string
}

// NewFetcher returns a Fetcher using the given language preference.
// Empty langs means engine.DefaultLanguages.
func NewFetcher(p engine.CaptionProvider, langs []string) *Fetcher {
	if len(langs) == 0 {
		langs = engine.DefaultLanguages
	}
	return &Fetcher{provider: p, langs: langs}
}

// Fetch returns the transcript for a canonical video ID.
//
// The provider is asked once with the language preference. Only when it
// reports ErrNoTranscriptFound does Fetch list the video's tracks and try the
// best match once more; any failure of that second attempt is reported as
// ErrNoTranscriptFound carrying the inner message. Errors satisfying
// engine.IsNotAvailable mean "no transcript"; anything else is internal.
// videoID must be canonical (see ResolveVideoID); anything else fails before
// the provider is called.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (engine.TranscriptResult, error) {
	if !IsValidVideoID(videoID) {
		return engine.TranscriptResult{}, fmt.Errorf("invalid video id %q", videoID)
	}
	snippets, err := f.provider.GetTranscript(ctx, videoID, f.langs)
	if errors.Is(err, engine.ErrNoTranscriptFound) {
		engine.IncrTranscriptFallbacks()
		slog.Warn("transcripts: primary fetch found no transcript, trying track list",
			slog.String("id", videoID), slog.Any("error", err))
		snippets, err = f.fetchFromCatalog(ctx, videoID)
	}
	if err != nil {
		return engine.TranscriptResult{}, err
	}
	return BuildResult(videoID, snippets), nil
}

func (f *Fetcher) fetchFromCatalog(ctx context.Context, videoID string) ([]engine.CaptionSnippet, error) {
	catalog, err := f.provider.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, notFound(videoID, err)
	}
	track, err := catalog.FindTranscript(f.langs)
	if err != nil {
		return nil, notFound(videoID, err)
	}
	snippets, err := f.provider.FetchTrack(ctx, track)
	if err != nil {
		return nil, notFound(videoID, err)
	}
	return snippets, nil
}

func notFound(videoID string, inner error) error {
	return engine.NewProviderError(engine.ErrNoTranscriptFound, videoID, inner.Error())
}

// BuildResult drops snippets without text, keeps provider order, and derives
// the full text from the kept chunks.
func BuildResult(videoID string, snippets []engine.CaptionSnippet) engine.TranscriptResult {
	chunks := make([]engine.CaptionChunk, 0, len(snippets))
	for _, s := range snippets {
		if s.Text == "" {
			continue
		}
		chunks = append(chunks, engine.CaptionChunk{
			Text:     s.Text,
			Start:    s.Start,
			Duration: s.Duration,
		})
	}
	return engine.TranscriptResult{
		VideoID:  videoID,
		Chunks:   chunks,
		FullText: FullText(chunks),
	}
}

// FullText joins chunk texts with single spaces and trims the result.
func FullText(chunks []engine.CaptionChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}
