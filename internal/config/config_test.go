package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"ytstream/internal/config"
)

func TestExecutablePath_Default(t *testing.T) {
	want := "./youtube-dl"
	if runtime.GOOS == "windows" {
		want = "youtube-dl.exe"
	}
	if got := config.ExecutablePath(); got != want {
		t.Errorf("ExecutablePath() = %q, want %q", got, want)
	}
}

func TestExecutablePath_Override(t *testing.T) {
	t.Setenv("YTSTREAM_EXTRACTOR_PATH", "/opt/bin/youtube-dl")
	if got := config.ExecutablePath(); got != "/opt/bin/youtube-dl" {
		t.Errorf("ExecutablePath() = %q, want override", got)
	}
}

func TestCacheDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdgcache")
	if got := config.CacheDir(); got != filepath.Clean("/tmp/xdgcache") {
		t.Errorf("CacheDir() = %q, want /tmp/xdgcache", got)
	}
}

func TestCacheDir_HomeFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/tester")
	want := filepath.Join("/home/tester", ".cache")
	if got := config.CacheDir(); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}

func TestVersionSingleton(t *testing.T) {
	config.SetVersion("2024.01.01")
	if got := config.Version(); got != "2024.01.01" {
		t.Errorf("Version() = %q, want 2024.01.01", got)
	}
}

func TestUserAgentSingleton(t *testing.T) {
	config.SetUserAgent("ytstream-test/1.0")
	if got := config.UserAgent(); got != "ytstream-test/1.0" {
		t.Errorf("UserAgent() = %q, want ytstream-test/1.0", got)
	}
}
