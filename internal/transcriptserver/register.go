// Package transcriptserver exposes transcript fetching over plain HTTP and as
// an MCP tool.
package transcriptserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TranscriptInput is the input of the youtube_transcript tool.
type TranscriptInput struct {
	ID       string `json:"id,omitempty" jsonschema:"YouTube video ID (11 characters) or any string containing one. Takes precedence over url."`
	URL      string `json:"url,omitempty" jsonschema:"Any YouTube URL: watch?v=, youtu.be/, /shorts/, /embed/"`
	MaxChars int    `json:"max_chars,omitempty" jsonschema:"Truncate full_text to this many characters at a word boundary (default: no limit). Chunks are never truncated."`
}

// RegisterTools registers the youtube_transcript tool on the given MCP server.
func RegisterTools(server *mcp.Server, f TranscriptFetcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the English caption track of a YouTube video (manual or auto-generated). Accepts a video ID or URL. Returns timed chunks (text, start, duration in seconds) and the concatenated full_text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, engine.TranscriptResult, error) {
		out, err := runTranscriptTool(ctx, f, input)
		return nil, out, err
	})
}

func runTranscriptTool(ctx context.Context, f TranscriptFetcher, input TranscriptInput) (engine.TranscriptResult, error) {
	videoID, ok := transcripts.ResolveVideoID(input.ID, input.URL)
	if !ok {
		engine.IncrInvalidInput()
		return engine.TranscriptResult{}, errors.New(MsgInvalidInput)
	}

	engine.IncrTranscriptRequests()
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.RequestTimeout)
	defer cancel()
	out, err := f.Fetch(ctx, videoID)
	if err != nil {
		if engine.IsNotAvailable(err) {
			engine.IncrNotAvailable()
			return engine.TranscriptResult{}, fmt.Errorf("%s: %w", MsgNotAvailable, err)
		}
		engine.IncrInternalErrors()
		return engine.TranscriptResult{}, err
	}

	if input.MaxChars > 0 {
		out.FullText = engine.TruncateAtWord(out.FullText, input.MaxChars)
	}
	return out, nil
}
