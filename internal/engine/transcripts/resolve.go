package transcripts

import (
	"net/url"
	"regexp"
	"strings"
)

// videoIDRE matches an 11-character video ID at the start of the input,
// right after a "v=" marker, or right after a "/". The first match wins.
var videoIDRE = regexp.MustCompile(`(?:^|v=|/)([0-9A-Za-z_-]{11})`)

var exactVideoIDRE = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// IsValidVideoID reports whether s is exactly one canonical video ID.
func IsValidVideoID(s string) bool {
	return exactVideoIDRE.MatchString(s)
}

// ResolveVideoID extracts a video ID from the id or url request parameters.
// A non-blank id always takes precedence and url is then ignored, even when
// id yields nothing. Whitespace-only input counts as absent.
func ResolveVideoID(idParam, urlParam string) (string, bool) {
	if id := strings.TrimSpace(idParam); id != "" {
		return matchVideoID(id)
	}
	raw := strings.TrimSpace(urlParam)
	if raw == "" {
		return "", false
	}
	if u, err := url.Parse(raw); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return matchVideoID(v)
		}
	}
	// Short links (youtu.be/<id>), /shorts/<id>, /embed/<id> and friends.
	return matchVideoID(raw)
}

func matchVideoID(s string) (string, bool) {
	m := videoIDRE.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
