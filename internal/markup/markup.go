// Package markup renders inline Markdown pages into standalone HTML
// documents that wkhtmltopdf can load from disk.
package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrConversion indicates Markdown could not be rendered.
var ErrConversion = errors.New("markdown conversion failed")

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github"

// documentTemplate wraps goldmark's fragment output. The charset meta tag
// matters: wkhtmltopdf otherwise guesses Latin-1 for local files.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// Renderer converts Markdown to HTML using goldmark (pure Go).
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GFM extensions and inline syntax
// highlighting in the given chroma style (empty = DefaultStyle).
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				// Inline styles: the temp file has no stylesheet next to it.
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithParserOptions(
			// wkhtmltopdf builds its outline and TOC from heading anchors.
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Renderer{md: md}
}

// Render converts Markdown content to a complete HTML5 document.
// goldmark has no context support, so cancellation is only observed
// before and after the conversion.
func (r *Renderer) Render(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if title == "" {
		title = "Document"
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), buf.String()), nil
}
