package textparse_test

import (
	"testing"

	"ytstream/internal/textparse"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[0;31mERROR:\x1b[0m something broke"
	want := "ERROR: something broke"
	if got := textparse.StripANSI(in); got != want {
		t.Errorf("StripANSI(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitizeUTF8_ValidPassesThrough(t *testing.T) {
	s := "Pingüino café"
	if got := textparse.SanitizeUTF8(s); got != s {
		t.Errorf("SanitizeUTF8 altered valid UTF-8: %q", got)
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10.0%", 10.0},
		{"50.0%", 50.0},
		{"1,234.5%", 1234.5},
		{" 25.0%", 25.0},
		{"100%", 100},
	}
	for _, tt := range tests {
		got, err := textparse.ParsePercent(tt.in)
		if err != nil {
			t.Errorf("ParsePercent(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100.00MiB", 100 * 1024 * 1024},
		{"50.00MiB", 50 * 1024 * 1024},
		{"823.00KiB", 823 * 1024},
	}
	for _, tt := range tests {
		got, err := textparse.ParseByteSize(tt.in)
		if err != nil {
			t.Errorf("ParseByteSize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseByteSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
