package main

import (
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitSuccess, "Commands:", ""},
		{"convert", []string{"convert"}, ExitSuccess, "--toc-option", ""},
		{"doctor", []string{"doctor"}, ExitSuccess, "--json", ""},
		{"version", []string{"version"}, ExitSuccess, "htmltopdf version", ""},
		{"help", []string{"help"}, ExitSuccess, "htmltopdf help", ""},
		{"unknown", []string{"completion"}, ExitUsage, "", "Unknown command: completion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			if code := runHelp(tt.args, env); code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestPrintConvertUsage_ListsEveryFlag(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	printConvertUsage(&sb)
	usage := sb.String()

	fs := buildConvertFlagSet(&convertFlags{})
	fs.VisitAll(func(fl *flag.Flag) {
		if !strings.Contains(usage, "--"+fl.Name) {
			t.Errorf("convert usage does not mention --%s", fl.Name)
		}
	})
}
