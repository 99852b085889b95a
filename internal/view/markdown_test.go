package view

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
		excludes string
	}{
		{
			name:     "paragraph",
			src:      "hello world",
			contains: "<p>hello world</p>",
		},
		{
			name:     "emphasis",
			src:      "launching *soon*",
			contains: "<em>soon</em>",
		},
		{
			name:     "script stripped",
			src:      "hi <script>alert(1)</script>",
			excludes: "<script>",
		},
		{
			name:     "event handler stripped",
			src:      `<a href="https://example.com" onclick="steal()">link</a>`,
			contains: "link",
			excludes: "onclick",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.src))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("Markdown(%q) = %q, want it to contain %q", tt.src, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("Markdown(%q) = %q, must not contain %q", tt.src, got, tt.excludes)
			}
		})
	}
}
