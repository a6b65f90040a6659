package validate_test

import (
	"testing"

	"ytstream/internal/validate"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https URL", "https://youtube.com/watch?v=123", false},
		{"valid http URL", "http://example.com", false},
		{"empty URL", "", true},
		{"no scheme", "youtube.com/watch", true},
		{"ftp scheme rejected", "ftp://example.com", true},
		{"whitespace only", "   ", true},
		{"URL with spaces trimmed", "  https://example.com  ", false},
		{"unknown platform is fine", "https://some-random-video-site.example/v/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate.URL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("URL(%q) error = %v, wantErr = %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestDirectoryPath(t *testing.T) {
	dir := t.TempDir()

	if _, err := validate.DirectoryPath(""); err == nil {
		t.Error("empty path should error")
	}
	if _, err := validate.DirectoryPath("../escape"); err == nil {
		t.Error("path traversal should error")
	}
	if out, err := validate.DirectoryPath(dir); err != nil || out == "" {
		t.Errorf("DirectoryPath(%q) = %q, %v", dir, out, err)
	}

	notYetCreated := dir + "/nested/child"
	if out, err := validate.DirectoryPath(notYetCreated); err != nil {
		t.Errorf("non-existent path should not error: %v", err)
	} else if out == "" {
		t.Error("expected non-empty absolute path")
	}
}

func TestNonEmptyString(t *testing.T) {
	if got := validate.NonEmptyString("  ", "fallback"); got != "fallback" {
		t.Errorf("NonEmptyString(blank) = %q, want fallback", got)
	}
	if got := validate.NonEmptyString("value", "fallback"); got != "value" {
		t.Errorf("NonEmptyString(value) = %q, want value", got)
	}
}
