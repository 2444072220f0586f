// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-htmltopdf/internal/fileutil"
	"github.com/alnah/go-htmltopdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under os.UserConfigDir().
const AppDirName = "go-htmltopdf"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxTitleLength       = 200
	MaxPageSizeLength    = 10 // "Executive"
	MaxOrientationLength = 10 // "landscape"
	MaxOptionNameLength  = 100
	MaxOptionValueLength = 2048
	MaxWorkers           = 64
)

// Config holds everything the convert command can read from a file.
type Config struct {
	Binary            string         `yaml:"binary"`
	Timeout           string         `yaml:"timeout"` // Go duration, e.g. "30s"
	AcceptedExitCodes []int          `yaml:"acceptedExitCodes"`
	Workers           int            `yaml:"workers"` // 0 = auto
	Page              PageConfig     `yaml:"page"`
	Render            RenderConfig   `yaml:"render"`
	TOC               TOCConfig      `yaml:"toc"`
	Options           []OptionConfig `yaml:"options"`
	Log               LogConfig      `yaml:"log"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string        `yaml:"size"`        // "A4", "Letter", ... (default: A4)
	Orientation string        `yaml:"orientation"` // "portrait", "landscape"
	Title       string        `yaml:"title"`
	Margins     *MarginConfig `yaml:"margins"` // millimeters; nil = tool defaults
}

// MarginConfig holds the four page margins in millimeters.
type MarginConfig struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// RenderConfig toggles wkhtmltopdf rendering switches.
type RenderConfig struct {
	DisableJavaScript    bool `yaml:"disableJavaScript"`
	NoImages             bool `yaml:"noImages"`
	DisableExternalLinks bool `yaml:"disableExternalLinks"`
	EnablePlugins        bool `yaml:"enablePlugins"`
	Grayscale            bool `yaml:"grayscale"`
	LowQuality           bool `yaml:"lowQuality"`
	LocalFileAccess      bool `yaml:"localFileAccess"`
}

// TOCConfig defines the table of contents block.
type TOCConfig struct {
	Enabled bool           `yaml:"enabled"`
	Options []OptionConfig `yaml:"options"`
}

// OptionConfig is a raw wkhtmltopdf option, e.g. {name: --dpi, values: ["300"]}.
type OptionConfig struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Validate checks values that can be verified without the builder.
// Page size names are checked later by the builder itself.
func (c *Config) Validate() error {
	if err := validateFieldLength("binary", c.Binary, MaxPathLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	for i, code := range c.AcceptedExitCodes {
		if code < 0 || code > 255 {
			return fmt.Errorf("%w: acceptedExitCodes[%d]: %d out of range 0-255", ErrInvalidValue, i, code)
		}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
			// valid
		default:
			return fmt.Errorf("%w: page.orientation: %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if err := validateFieldLength("page.title", c.Page.Title, MaxTitleLength); err != nil {
		return err
	}
	if m := c.Page.Margins; m != nil {
		if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
			return fmt.Errorf("%w: page.margins: must not be negative", ErrInvalidValue)
		}
	}

	if err := validateOptions("toc.options", c.TOC.Options); err != nil {
		return err
	}
	if err := validateOptions("options", c.Options); err != nil {
		return err
	}
	return validateFieldLength("log.output", c.Log.Output, MaxPathLength)
}

// TimeoutDuration parses Timeout. Empty means zero (use the default).
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

func validateOptions(field string, opts []OptionConfig) error {
	for i, opt := range opts {
		name := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(opt.Name) == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name+".name", opt.Name, MaxOptionNameLength); err != nil {
			return err
		}
		for j, v := range opt.Values {
			if err := validateFieldLength(fmt.Sprintf("%s.values[%d]", name, j), v, MaxOptionValueLength); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: every field empty, so the
// library defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.DecodeFile(configPath, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files resolveConfigPath tries for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory first, then ~/.config/go-htmltopdf/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
