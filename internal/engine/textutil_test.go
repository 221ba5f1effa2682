package engine

import "testing"

func TestCleanCaption(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Never gonna", "Never gonna"},
		{"apostrophe entity", "don&#39;t", "don't"},
		{"escaped tags", "&lt;i&gt;music&lt;/i&gt;", "music"},
		{"raw tags", "<font color=\"#fff\">hi</font>", "hi"},
		{"whitespace only", "  \n ", ""},
		{"ampersand", "rock &amp; roll", "rock & roll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCaption(tt.in); got != tt.want {
				t.Errorf("CleanCaption(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
