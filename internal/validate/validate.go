// Package validate provides input validation for the values crossing the
// core's boundary: the URL handed to a MetadataCollector and the output
// paths a consumer points a DownloadDriver at.
package validate

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	apperr "ytstream/internal/errors"
)

// DangerousPathPatterns flag path traversal attempts in a caller-supplied
// output directory.
var DangerousPathPatterns = []string{"..", "~", "$"}

// URL validates a URL is well-formed and has an http(s) scheme and host.
// It does not check the host against any platform whitelist: the core
// delegates site support entirely to the external extractor, so hardcoding
// a list of "supported" hosts here would just drift out of sync with what
// the extractor actually understands.
func URL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, apperr.NewWithMessage("validate.URL", nil, "URL must not be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, apperr.NewWithMessage("validate.URL", nil, "URL must start with http:// or https://")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, apperr.NewWithMessage("validate.URL", err, "malformed URL")
	}
	if parsed.Host == "" {
		return nil, apperr.NewWithMessage("validate.URL", nil, "URL has no host")
	}

	return parsed, nil
}

// DirectoryPath validates a directory path, returning its cleaned absolute
// form. A path that does not yet exist is not an error; the caller may be
// about to create it.
func DirectoryPath(path string) (string, error) {
	if path == "" {
		return "", apperr.NewWithMessage("validate.DirectoryPath", nil, "path must not be empty")
	}

	for _, pattern := range DangerousPathPatterns {
		if strings.Contains(path, pattern) {
			return "", apperr.NewWithMessage("validate.DirectoryPath", nil, "path contains disallowed characters")
		}
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", apperr.Wrap("validate.DirectoryPath", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", apperr.Wrap("validate.DirectoryPath", err)
	}
	if !info.IsDir() {
		return "", apperr.NewWithMessage("validate.DirectoryPath", nil, "path is not a directory")
	}

	return absPath, nil
}

// NonEmptyString returns value, or defaultValue if value is blank.
func NonEmptyString(value, defaultValue string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	return value
}
