package hints

// Notes:
// - ForInstallationNotFound and ForHeadlessEnvironment tests cannot use
//   t.Parallel() because they use t.Setenv() or modify IsInContainer.

import (
	"runtime"
	"strings"
	"testing"
)

func TestForInstallationNotFound(t *testing.T) {
	t.Setenv("HTMLTOPDF_BINARY", "")

	hint := ForInstallationNotFound()

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint %q lacks prefix", hint)
	}
	if !strings.Contains(hint, "wkhtmltopdf.org") {
		t.Error("expected download URL")
	}
	if !strings.Contains(hint, "--binary") {
		t.Error("expected --binary suggestion")
	}
}

func TestForInstallationNotFound_BinaryAlreadySet(t *testing.T) {
	t.Setenv("HTMLTOPDF_BINARY", "/opt/wk/bin/wkhtmltopdf")

	if strings.Contains(ForInstallationNotFound(), "--binary") {
		t.Error("should not suggest --binary when HTMLTOPDF_BINARY is set")
	}
}

func TestForProcessRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "missing X server",
			stderr: "QXcbConnection: Could not connect to display\nAborted",
			want:   "xvfb-run",
		},
		{
			name:   "local file blocked",
			stderr: "Warning: Blocked access to file /tmp/logo.png",
			want:   "--enable-local-file-access",
		},
		{
			name:   "content not found",
			stderr: "Exit with code 1 due to network error: ContentNotFoundError",
			want:   "--accept-exit-code 1",
		},
		{
			name:   "unknown failure",
			stderr: "segmentation fault",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForProcessRejected(tt.stderr)
			if tt.want == "" {
				if got != "" {
					t.Errorf("ForProcessRejected() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ForProcessRejected() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestForHeadlessEnvironment(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()

	IsInContainer = func() bool { return false }
	t.Setenv("DISPLAY", "")

	hint := ForHeadlessEnvironment()
	if runtime.GOOS == "linux" {
		if !strings.Contains(hint, "patched-qt") {
			t.Errorf("hint = %q, want patched-qt suggestion", hint)
		}
	} else if hint != "" {
		t.Errorf("hint = %q, want empty on %s", hint, runtime.GOOS)
	}

	t.Setenv("DISPLAY", ":0")
	if got := ForHeadlessEnvironment(); got != "" {
		t.Errorf("hint with DISPLAY set = %q, want empty", got)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForTimeout(), "--timeout") {
		t.Error("expected --timeout suggestion")
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	paths := []string{"work.yaml", "/home/u/.config/go-htmltopdf/work.yaml"}
	hint := ForConfigNotFound(paths)

	if !strings.Contains(hint, "--config") {
		t.Error("expected --config suggestion")
	}
	if !strings.Contains(hint, "/home/u/.config/go-htmltopdf/work.yaml") {
		t.Errorf("hint = %q, want user config path", hint)
	}
}

func TestFormatHints_Empty(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
