package transcripts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rickID = "dQw4w9WgXcQ"

// stubProvider scripts one response per provider method and records calls.
type stubProvider struct {
	getSnippets []engine.CaptionSnippet
	getErr      error
	catalog     *engine.TranscriptCatalog
	listErr     error
	trackSnips  []engine.CaptionSnippet
	trackErr    error

	calls    []string
	gotLangs []string
	gotTrack engine.CaptionTrack
}

func (p *stubProvider) GetTranscript(_ context.Context, videoID string, langs []string) ([]engine.CaptionSnippet, error) {
	p.calls = append(p.calls, "get")
	p.gotLangs = langs
	return p.getSnippets, p.getErr
}

func (p *stubProvider) ListTranscripts(_ context.Context, videoID string) (*engine.TranscriptCatalog, error) {
	p.calls = append(p.calls, "list")
	return p.catalog, p.listErr
}

func (p *stubProvider) FetchTrack(_ context.Context, track engine.CaptionTrack) ([]engine.CaptionSnippet, error) {
	p.calls = append(p.calls, "fetch")
	p.gotTrack = track
	return p.trackSnips, p.trackErr
}

var neverGonna = []engine.CaptionSnippet{
	{Text: "Never", Start: 0.0, Duration: 1.2},
	{Text: "gonna", Start: 1.2, Duration: 1.0},
}

func TestFetchPrimarySuccess(t *testing.T) {
	p := &stubProvider{getSnippets: neverGonna}

	got, err := NewFetcher(p, nil).Fetch(context.Background(), rickID)
	require.NoError(t, err)
	assert.Equal(t, engine.TranscriptResult{
		VideoID: rickID,
		Chunks: []engine.CaptionChunk{
			{Text: "Never", Start: 0.0, Duration: 1.2},
			{Text: "gonna", Start: 1.2, Duration: 1.0},
		},
		FullText: "Never gonna",
	}, got)
	assert.Equal(t, []string{"get"}, p.calls)
	assert.Equal(t, []string{"en"}, p.gotLangs)
}

func TestFetchFallbackSuccess(t *testing.T) {
	p := &stubProvider{
		getErr: engine.NewProviderError(engine.ErrNoTranscriptFound, rickID, "requested en"),
		catalog: &engine.TranscriptCatalog{
			VideoID:   rickID,
			Generated: []engine.CaptionTrack{{VideoID: rickID, LanguageCode: "en", Generated: true}},
		},
		trackSnips: neverGonna,
	}

	got, err := NewFetcher(p, []string{"en"}).Fetch(context.Background(), rickID)
	require.NoError(t, err)
	assert.Equal(t, "Never gonna", got.FullText)
	assert.Equal(t, []string{"get", "list", "fetch"}, p.calls)
	assert.True(t, p.gotTrack.Generated)
}

func TestFetchFallbackFailuresAreNotFound(t *testing.T) {
	noEnglish := &engine.TranscriptCatalog{
		VideoID: rickID,
		Manual:  []engine.CaptionTrack{{VideoID: rickID, LanguageCode: "fr"}},
	}
	english := &engine.TranscriptCatalog{
		VideoID: rickID,
		Manual:  []engine.CaptionTrack{{VideoID: rickID, LanguageCode: "en"}},
	}
	tests := []struct {
		name       string
		p          *stubProvider
		wantDetail string
		wantCalls  []string
	}{
		{
			name:       "list fails",
			p:          &stubProvider{listErr: errors.New("connection reset by peer")},
			wantDetail: "connection reset by peer",
			wantCalls:  []string{"get", "list"},
		},
		{
			name:       "find fails",
			p:          &stubProvider{catalog: noEnglish},
			wantDetail: "available: fr",
			wantCalls:  []string{"get", "list"},
		},
		{
			name:       "fetch fails",
			p:          &stubProvider{catalog: english, trackErr: errors.New("parse timedtext XML: EOF")},
			wantDetail: "parse timedtext XML: EOF",
			wantCalls:  []string{"get", "list", "fetch"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.p.getErr = engine.NewProviderError(engine.ErrNoTranscriptFound, rickID, "")

			_, err := NewFetcher(tt.p, nil).Fetch(context.Background(), rickID)
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrNoTranscriptFound)
			assert.True(t, engine.IsNotAvailable(err))
			assert.Contains(t, err.Error(), tt.wantDetail)
			assert.Equal(t, tt.wantCalls, tt.p.calls)
		})
	}
}

func TestFetchNoFallbackForOtherErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantAvailable bool
	}{
		{"disabled", engine.NewProviderError(engine.ErrTranscriptsDisabled, rickID, ""), true},
		{"unavailable", engine.NewProviderError(engine.ErrVideoUnavailable, rickID, "removed"), true},
		{"network", fmt.Errorf("watch page: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{getErr: tt.err}

			_, err := NewFetcher(p, nil).Fetch(context.Background(), rickID)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantAvailable, engine.IsNotAvailable(err))
			assert.Equal(t, []string{"get"}, p.calls)
		})
	}
}

func TestFetchRejectsNonCanonicalID(t *testing.T) {
	for _, id := range []string{"", "dQw4w9WgXc", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ!"} {
		p := &stubProvider{}

		_, err := NewFetcher(p, nil).Fetch(context.Background(), id)
		require.Error(t, err, id)
		assert.False(t, engine.IsNotAvailable(err))
		assert.Empty(t, p.calls, id)
	}
}

func TestBuildResultDropsEmptyText(t *testing.T) {
	got := BuildResult(rickID, []engine.CaptionSnippet{
		{Text: "", Start: 0, Duration: 1},
		{Text: "one", Start: 1, Duration: 1},
		{Text: "", Start: 2, Duration: 1},
		{Text: "two", Start: 3, Duration: 1},
	})
	require.Len(t, got.Chunks, 2)
	assert.Equal(t, "one", got.Chunks[0].Text)
	assert.Equal(t, "two", got.Chunks[1].Text)
	assert.Equal(t, "one two", got.FullText)
}

func TestBuildResultEmpty(t *testing.T) {
	got := BuildResult(rickID, nil)
	assert.NotNil(t, got.Chunks)
	assert.Empty(t, got.Chunks)
	assert.Equal(t, "", got.FullText)
}

func TestBuildResultFullTextProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"", " ", "a", "hello", " padded ", "x y", "\n"}
	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		snippets := make([]engine.CaptionSnippet, n)
		for j := range snippets {
			snippets[j] = engine.CaptionSnippet{
				Text:     words[rng.Intn(len(words))],
				Start:    float64(j),
				Duration: rng.Float64(),
			}
		}

		got := BuildResult(rickID, snippets)

		var texts []string
		for _, c := range got.Chunks {
			if c.Text == "" {
				t.Fatalf("case %d: chunk with empty text survived", i)
			}
			texts = append(texts, c.Text)
		}
		want := strings.TrimSpace(strings.Join(texts, " "))
		if got.FullText != want {
			t.Fatalf("case %d: FullText = %q, want %q", i, got.FullText, want)
		}
		if again := BuildResult(rickID, snippets); again.FullText != got.FullText {
			t.Fatalf("case %d: FullText not deterministic", i)
		}
	}
}
