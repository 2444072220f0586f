package htmltopdf

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/alnah/go-htmltopdf/internal/fileutil"
	"github.com/alnah/go-htmltopdf/internal/markup"
)

// tocKeyword switches wkhtmltopdf from global options to TOC options.
const tocKeyword = "toc"

// stdoutTarget makes wkhtmltopdf write the PDF to stdout.
const stdoutTarget = "-"

// markdownRenderer turns inline Markdown into a standalone HTML document.
type markdownRenderer interface {
	Render(ctx context.Context, title, content string) (string, error)
}

// conversion is a private snapshot of a Builder's state for one run.
type conversion struct {
	installPath string
	body        ParamSet
	tocEnabled  bool
	toc         ParamSet
	pages       []Page
	tempDir     string
}

func (c *conversion) clone() *conversion {
	return &conversion{
		installPath: c.installPath,
		body:        c.body.Clone(),
		tocEnabled:  c.tocEnabled,
		toc:         c.toc.Clone(),
		pages:       slices.Clone(c.pages),
		tempDir:     c.tempDir,
	}
}

// command is an assembled invocation and the temp files it depends on.
type command struct {
	argv      []string
	tempFiles []string
}

// assemble builds the argv:
//
//	install-path body-params [toc toc-params] pages... -
//
// Inline pages are written to fresh temp files on every call. When
// assembly fails, the files created so far are removed before returning.
func (c *conversion) assemble(ctx context.Context, md markdownRenderer) (*command, error) {
	cmd := &command{argv: []string{c.installPath}}
	cmd.argv = c.body.AppendArgs(cmd.argv)

	if c.tocEnabled {
		cmd.argv = append(cmd.argv, tocKeyword)
		cmd.argv = c.toc.AppendArgs(cmd.argv)
	}

	for i, page := range c.pages {
		arg, err := c.pageArg(ctx, md, page)
		if err != nil {
			if cleanupErr := removeTempFiles(cmd.tempFiles); cleanupErr != nil {
				err = errors.Join(err, cleanupErr)
			}
			return nil, fmt.Errorf("page %d (%s): %w", i+1, page.Kind, err)
		}
		if page.Inline() {
			cmd.tempFiles = append(cmd.tempFiles, arg)
		}
		cmd.argv = append(cmd.argv, arg)
	}

	cmd.argv = append(cmd.argv, stdoutTarget)
	return cmd, nil
}

// pageArg returns the argv entry for page, materializing inline content.
func (c *conversion) pageArg(ctx context.Context, md markdownRenderer, page Page) (string, error) {
	content := page.Source
	switch page.Kind {
	case PageURL, PageFile:
		return page.Source, nil
	case PageMarkdown:
		rendered, err := md.Render(ctx, c.title(), page.Source)
		if err != nil {
			return "", err
		}
		content, err = markup.ResolveRelativePaths(rendered, page.BaseDir)
		if err != nil {
			return "", err
		}
	case PageHTML:
	default:
		return "", fmt.Errorf("%w: unknown page kind %d", ErrInvalidConfiguration, page.Kind)
	}

	path, err := fileutil.WriteTempFile(c.tempDir, content, "html")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTempFile, err)
	}
	return path, nil
}

// title returns the --title value, used as the <title> of rendered Markdown.
func (c *conversion) title() string {
	if p, ok := c.body.Get(flagTitle); ok && len(p.Values) > 0 {
		return p.Values[0]
	}
	return ""
}
