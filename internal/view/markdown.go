package view

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/proconnect/internal/logger"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
	)
	// User-generated content: posts, job descriptions, "about" sections.
	policy = bluemonday.UGCPolicy()
)

// Markdown renders user-supplied markdown and sanitizes the result before
// it reaches a template. On a render error the raw text is returned
// escaped, never dropped.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		logger.Errorf("markdown render: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
