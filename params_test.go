package htmltopdf

import (
	"slices"
	"testing"
)

func TestParam_Constructors(t *testing.T) {
	t.Parallel()

	flag := Flag("--grayscale")
	if !flag.IsFlag() {
		t.Error("Flag() should be a switch")
	}

	values := []string{"Contents"}
	withValues := FlagWithValues("--toc-header-text", values...)
	if withValues.IsFlag() {
		t.Error("FlagWithValues() should carry values")
	}

	values[0] = "mutated"
	if withValues.Values[0] != "Contents" {
		t.Error("FlagWithValues() must copy its values")
	}
}

func TestParamSet_SetKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	var s ParamSet
	s.Set(FlagWithValues("--page-size", "A4"))
	s.Set(Flag("--grayscale"))
	s.Set(FlagWithValues("--title", "Report"))

	got := s.AppendArgs(nil)
	want := []string{"--page-size", "A4", "--grayscale", "--title", "Report"}
	if !slices.Equal(got, want) {
		t.Errorf("AppendArgs() = %v, want %v", got, want)
	}
}

func TestParamSet_SetReplacesInPlace(t *testing.T) {
	t.Parallel()

	var s ParamSet
	s.Set(FlagWithValues("--page-size", "A4"))
	s.Set(Flag("--grayscale"))
	s.Set(FlagWithValues("--page-size", "Letter"))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	got := s.AppendArgs([]string{"wkhtmltopdf"})
	want := []string{"wkhtmltopdf", "--page-size", "Letter", "--grayscale"}
	if !slices.Equal(got, want) {
		t.Errorf("AppendArgs() = %v, want %v", got, want)
	}

	p, ok := s.Get("--page-size")
	if !ok || p.Values[0] != "Letter" {
		t.Errorf("Get(--page-size) = %v, %v", p, ok)
	}
	if _, ok := s.Get("--missing"); ok {
		t.Error("Get(--missing) found a param")
	}
}

func TestParamSet_Clone(t *testing.T) {
	t.Parallel()

	var s ParamSet
	s.Set(FlagWithValues("--title", "Original"))

	c := s.Clone()
	c.Set(FlagWithValues("--title", "Changed"))
	c.Set(Flag("--grayscale"))

	if p, _ := s.Get("--title"); p.Values[0] != "Original" {
		t.Errorf("original mutated through clone: %v", p)
	}
	if s.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", s.Len())
	}

	params := c.Params()
	params[0].Name = "--other"
	if _, ok := c.Get("--title"); !ok {
		t.Error("Params() must return a copy")
	}
}

func TestParamSet_ZeroValue(t *testing.T) {
	t.Parallel()

	var s ParamSet
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.AppendArgs(nil); len(got) != 0 {
		t.Errorf("AppendArgs() = %v, want empty", got)
	}
	c := s.Clone()
	c.Set(Flag("--grayscale"))
	if c.Len() != 1 {
		t.Errorf("clone of zero value Len() = %d, want 1", c.Len())
	}
}
