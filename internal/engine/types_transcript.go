package engine

import (
	"context"
	"fmt"
	"strings"
)

// --- Transcript types ---

// CaptionSnippet is one raw timed caption as delivered by a provider.
// Text may be empty; callers filter.
type CaptionSnippet struct {
	Text     string
	Start    float64
	Duration float64
}

// CaptionChunk is one timed unit of transcript text in a response.
type CaptionChunk struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptResult is the success payload of a transcript request.
type TranscriptResult struct {
	VideoID  string         `json:"videoId"`
	Chunks   []CaptionChunk `json:"chunks"`
	FullText string         `json:"full_text"`
}

// CaptionTrack addresses one caption track of a video.
type CaptionTrack struct {
	VideoID      string `json:"video_id"`
	LanguageCode string `json:"language_code"`
	Language     string `json:"language"`
	Generated    bool   `json:"generated"` // auto-caption (ASR)
	BaseURL      string `json:"-"`
}

// TranscriptCatalog lists every caption track a video offers.
type TranscriptCatalog struct {
	VideoID   string
	Manual    []CaptionTrack
	Generated []CaptionTrack
}

// FindTranscript picks the best track for the language preferences.
// Manually authored tracks win over generated ones; within each group the
// earlier language in langs wins.
func (c *TranscriptCatalog) FindTranscript(langs []string) (CaptionTrack, error) {
	for _, group := range [][]CaptionTrack{c.Manual, c.Generated} {
		for _, lang := range langs {
			for _, t := range group {
				if t.LanguageCode == lang {
					return t, nil
				}
			}
		}
	}
	return CaptionTrack{}, NewProviderError(ErrNoTranscriptFound, c.VideoID,
		fmt.Sprintf("requested %s; available: %s", strings.Join(langs, ", "), c.describe()))
}

// Languages returns the language codes of every track, manual first.
func (c *TranscriptCatalog) Languages() []string {
	out := make([]string, 0, len(c.Manual)+len(c.Generated))
	for _, t := range c.Manual {
		out = append(out, t.LanguageCode)
	}
	for _, t := range c.Generated {
		out = append(out, t.LanguageCode)
	}
	return out
}

func (c *TranscriptCatalog) describe() string {
	var parts []string
	for _, t := range c.Manual {
		parts = append(parts, t.LanguageCode)
	}
	for _, t := range c.Generated {
		parts = append(parts, t.LanguageCode+" (generated)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// CaptionProvider is the external captioning collaborator.
// Failures of the documented kinds wrap ErrTranscriptsDisabled,
// ErrNoTranscriptFound or ErrVideoUnavailable.
type CaptionProvider interface {
	GetTranscript(ctx context.Context, videoID string, langs []string) ([]CaptionSnippet, error)
	ListTranscripts(ctx context.Context, videoID string) (*TranscriptCatalog, error)
	FetchTrack(ctx context.Context, track CaptionTrack) ([]CaptionSnippet, error)
}
