package main

import (
	"errors"
	"io"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-o", "out.pdf",
		"--binary", "/opt/wkhtmltopdf",
		"-t", "30s",
		"--accept-exit-code", "0,1",
		"--accept-exit-code", "2",
		"-p", "Letter",
		"--orientation", "landscape",
		"--title", "Report",
		"--margin-top", "0",
		"--grayscale",
		"--toc",
		"--toc-option", "toc-header-text=Contents",
		"--option", "dpi=300",
		"--option", "--print-media-type",
		"--highlight-style", "monokai",
		"-v",
		"a.html", "https://example.com",
	}

	f, positional, err := parseConvertFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if f.output != "out.pdf" {
		t.Errorf("output = %q, want out.pdf", f.output)
	}
	if f.process.binary != "/opt/wkhtmltopdf" {
		t.Errorf("binary = %q", f.process.binary)
	}
	if f.process.timeout != "30s" {
		t.Errorf("timeout = %q, want 30s", f.process.timeout)
	}
	if !slices.Equal(f.process.acceptCodes, []int{0, 1, 2}) {
		t.Errorf("acceptCodes = %v, want [0 1 2]", f.process.acceptCodes)
	}
	if f.page.size != "Letter" || f.page.orientation != "landscape" || f.page.title != "Report" {
		t.Errorf("page = %+v", f.page)
	}
	if !f.render.grayscale || f.render.noImages {
		t.Errorf("render = %+v", f.render)
	}
	if !f.toc.enabled || !slices.Equal(f.toc.options, []string{"toc-header-text=Contents"}) {
		t.Errorf("toc = %+v", f.toc)
	}
	if !slices.Equal(f.options, []string{"dpi=300", "--print-media-type"}) {
		t.Errorf("options = %v", f.options)
	}
	if f.highlightStyle != "monokai" {
		t.Errorf("highlightStyle = %q, want monokai", f.highlightStyle)
	}
	if !f.common.verbose {
		t.Error("verbose = false, want true")
	}
	if !slices.Equal(positional, []string{"a.html", "https://example.com"}) {
		t.Errorf("positional = %v", positional)
	}
}

func TestParseConvertFlags_Changed(t *testing.T) {
	t.Parallel()

	f, _, err := parseConvertFlags([]string{"--margin-top", "0", "--workers", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if !f.changed["margin-top"] {
		t.Error("changed[margin-top] = false, want true for an explicit zero")
	}
	if !f.changed["workers"] {
		t.Error("changed[workers] = false, want true")
	}
	if f.changed["margin-left"] {
		t.Error("changed[margin-left] = true for a flag not given")
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := parseConvertFlags([]string{"--help"}, io.Discard); !errors.Is(err, errHelp) {
		t.Errorf("--help error = %v, want %v", err, errHelp)
	}
	if _, _, err := parseConvertFlags([]string{"--accept-exit-code", "x"}, io.Discard); err == nil {
		t.Error("expected error for non-numeric exit code")
	}
	if _, _, err := parseConvertFlags([]string{"--margin-top", "wide"}, io.Discard); err == nil {
		t.Error("expected error for non-numeric margin")
	}
}
