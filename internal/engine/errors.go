package engine

import (
	"errors"
	"fmt"
)

// Provider failure kinds. Every caption provider reports its failures wrapped
// around exactly one of these, or with an unrelated error for internal faults.
var (
	ErrTranscriptsDisabled = errors.New("subtitles are disabled for this video")
	ErrNoTranscriptFound   = errors.New("no transcript found for the requested languages")
	ErrVideoUnavailable    = errors.New("the video is no longer available")
)

// ProviderError is a classified provider failure for one video.
type ProviderError struct {
	Kind    error // one of the Err* kinds above
	VideoID string
	Detail  string
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("could not retrieve a transcript for the video %s: %s", WatchURL(e.VideoID), e.Kind)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Kind }

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(kind error, videoID, detail string) *ProviderError {
	return &ProviderError{Kind: kind, VideoID: videoID, Detail: detail}
}

// IsNotAvailable reports whether err is one of the provider conditions that
// collapse into a single "transcript not available" outcome.
func IsNotAvailable(err error) bool {
	return errors.Is(err, ErrTranscriptsDisabled) ||
		errors.Is(err, ErrNoTranscriptFound) ||
		errors.Is(err, ErrVideoUnavailable)
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
