// Package constants centralizes the magic strings and fixed sets the rest
// of the module keys off of, instead of scattering literals across packages.
package constants

// ExecutableName is the extractor binary name per platform, resolved
// relative to the working directory on POSIX, not via PATH. This is
// deliberate, not an oversight.
const (
	ExecutableNamePOSIX    = "./youtube-dl"
	ExecutableNameWindows  = "youtube-dl.exe"
	ExecutableNameOverride = "YTSTREAM_EXTRACTOR_PATH" // env override
)

// MergeFormats are the only containers the extractor can target when
// joining audio and video tracks.
var MergeFormats = []string{"mkv", "mp4", "ogg", "webm", "flv"}

// IsMergeFormat reports whether ext is one of MergeFormats.
func IsMergeFormat(ext string) bool {
	for _, f := range MergeFormats {
		if f == ext {
			return true
		}
	}
	return false
}

// FilenameLegalChars are kept verbatim by fileBaseName sanitization,
// alongside letters and digits.
const FilenameLegalChars = "-+' @()[]{}°#,.&"

// NoneCodec is the sentinel yt-dlp-class tools use for "no track".
const NoneCodec = "none"

// MergeIncompatibleWarning is the substring DownloadDriver watches for in a
// WARNING: line to detect a forced container reformat.
const MergeIncompatibleWarning = "Requested formats are incompatible for merge and will be merged into mkv."

// CacheDirEnv / HomeEnv are the environment variables the cache-purge
// maintenance op consults to report where the extractor's cache lives.
const (
	CacheDirEnv = "XDG_CACHE_HOME"
	HomeEnv     = "HOME"
)
