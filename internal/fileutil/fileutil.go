// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TempPrefix starts the name of every temporary file created by this module.
const TempPrefix = "htmltopdf-"

// tempFilePermissions keeps inline page content private to the current user.
const tempFilePermissions = 0o600

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile writes content to a new file in dir named
// "htmltopdf-<uuid>.<extension>" and returns its absolute path.
// An empty dir means os.TempDir(). The file is created with O_EXCL, so two
// callers can never end up sharing a file.
func WriteTempFile(dir, content, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving temp dir: %w", err)
	}
	path := filepath.Join(absDir, TempPrefix+uuid.NewString()+"."+extension)

	// #nosec G304 -- path is built from a fresh UUID inside the temp dir
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, tempFilePermissions)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, writeErr := f.WriteString(content); writeErr != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := f.Close(); closeErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, nil
}

// RemoveIfExists deletes path. A file that is already gone is not an error.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsURL returns true if the string looks like a URL wkhtmltopdf can fetch.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "file://")
}

// IsMarkdownPath returns true for .md and .markdown files.
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
