// Package config resolves the extractor binary, the cache-purge directory,
// and the process-wide configuration singletons (version, user-agent) that
// every implementation of this kind needs to expose explicitly.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"ytstream/internal/constants"
)

// ExecutablePath returns the path the process-supervision layer should
// spawn. YTSTREAM_EXTRACTOR_PATH overrides it when set (useful in tests and
// for packaging a non-default binary name); otherwise it is the platform
// default.
//
// On POSIX this is "./youtube-dl", resolved relative to the current working
// directory rather than PATH. This is deliberate, not an oversight.
func ExecutablePath() string {
	if override := os.Getenv(constants.ExecutableNameOverride); override != "" {
		return override
	}
	if runtime.GOOS == "windows" {
		return constants.ExecutableNameWindows
	}
	return constants.ExecutableNamePOSIX
}

// CacheDir returns the directory the cache-purge maintenance op reports as
// the extractor's cache location, following the XDG Base Directory spec:
// $XDG_CACHE_HOME, or $HOME/.cache if unset, normalized to native
// separators. The actual deletion is performed by the extractor itself via
// --rm-cache-dir; this value is informational (for logging) only.
func CacheDir() string {
	if xdg := os.Getenv(constants.CacheDirEnv); xdg != "" {
		return filepath.Clean(xdg)
	}
	home := os.Getenv(constants.HomeEnv)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".cache")
}

// Process-wide configuration singletons (s_youtubedl_version /
// s_youtubedl_user_agent). Write-once, read-many: the
// version is memoized after the first successful version probe, the
// user-agent is set once by whatever wires up the consumer. Neither is
// mutated concurrently with reads in well-formed use, but the mutex makes
// that safe regardless.
var (
	singletonMu sync.RWMutex
	version     string
	userAgent   string
)

// Version returns the memoized extractor version, or "" if no version
// probe has completed yet.
func Version() string {
	singletonMu.RLock()
	defer singletonMu.RUnlock()
	return version
}

// SetVersion memoizes a successful version probe result.
func SetVersion(v string) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	version = v
}

// ResetVersionForTest clears the memoized version singleton. Tests that
// exercise the probe-on-empty-cache path must call this first, since the
// singleton otherwise survives across tests within the same process.
func ResetVersionForTest() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	version = ""
}

// UserAgent returns the shared user-agent override used by both
// MetadataCollector and DownloadDriver, or "" if none was configured.
func UserAgent() string {
	singletonMu.RLock()
	defer singletonMu.RUnlock()
	return userAgent
}

// SetUserAgent sets the shared user-agent override.
func SetUserAgent(ua string) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	userAgent = ua
}
