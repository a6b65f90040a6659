// Package streaminfo implements the data model: StreamFormat,
// StreamInfo and PlaylistItem, with the derivation rules for
// filename, suffix, and size estimation.
package streaminfo

import (
	"sort"

	"ytstream/internal/formatid"
)

// ErrorStatus classifies whether a StreamInfo is usable.
type ErrorStatus int

const (
	// NoError means the item was extracted successfully.
	NoError ErrorStatus = iota
	// JsonFormat means the Dump line for this item failed to parse.
	JsonFormat
	// Unavailable means the extractor reported the item could not be
	// pulled (geo-blocked, removed, private).
	Unavailable
)

func (s ErrorStatus) String() string {
	switch s {
	case NoError:
		return "NoError"
	case JsonFormat:
		return "JsonFormat"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// StreamInfo is a single media resource's metadata. Produced
// atomically by a MetadataCollector and thereafter treated as a value
// snapshot; only the three user-override fields are mutable on the
// consumer side.
type StreamInfo struct {
	ID             string        `json:"id"`
	Filename       string        `json:"_filename"`
	WebpageURL     string        `json:"webpage_url"`
	FullTitle      string        `json:"fulltitle"`
	DefaultTitle   string        `json:"title"`
	DefaultSuffix  string        `json:"ext"`
	Description    string        `json:"description"`
	Thumbnail      string        `json:"thumbnail"`
	Extractor      string        `json:"extractor"`
	ExtractorKey   string        `json:"extractor_key"`
	DefaultFormatID formatid.ID  `json:"format_id"`
	Formats        []Format      `json:"formats"`
	Playlist       string        `json:"playlist"`
	PlaylistIndex  int           `json:"playlist_index"`
	Error          ErrorStatus   `json:"-"`

	UserTitle    *string
	UserSuffix   *string
	UserFormatID *formatid.ID
}

// Title returns userTitle if set, else defaultTitle.
func (s *StreamInfo) Title() string {
	if s.UserTitle != nil {
		return *s.UserTitle
	}
	return s.DefaultTitle
}

// SetTitle sets the user title override. Setting it to the default value
// clears the override.
func (s *StreamInfo) SetTitle(title string) {
	if title == s.DefaultTitle {
		s.UserTitle = nil
		return
	}
	s.UserTitle = &title
}

// FormatID returns userFormatId if set, else defaultFormatId.
func (s *StreamInfo) FormatID() formatid.ID {
	if s.UserFormatID != nil {
		return *s.UserFormatID
	}
	return s.DefaultFormatID
}

// SetFormatID sets the selected composite format, clearing userSuffix so
// it is re-derived from the new composite's own ext.
func (s *StreamInfo) SetFormatID(id formatid.ID) {
	s.UserFormatID = &id
	s.UserSuffix = nil
}

// SetSuffix sets a user suffix override directly.
func (s *StreamInfo) SetSuffix(suffix string) {
	s.UserSuffix = &suffix
}

// Suffix implements the suffix() derivation.
func (s *StreamInfo) Suffix() string {
	if s.UserSuffix != nil {
		return *s.UserSuffix
	}
	if s.DefaultFormatID.IsEmpty() {
		return "???"
	}

	fid := s.FormatID()
	if fid.Equal(s.DefaultFormatID) {
		return s.DefaultSuffix
	}

	lastExt := ""
	for _, atomID := range fid.CompoundIDs() {
		f, ok := s.findFormat(atomID)
		if !ok {
			continue
		}
		lastExt = f.Ext
		if f.HasVideo() {
			return f.Ext
		}
	}
	return lastExt
}

func (s *StreamInfo) findFormat(id formatid.ID) (Format, bool) {
	for _, f := range s.Formats {
		if f.FormatID.Equal(id) {
			return f, true
		}
	}
	return Format{}, false
}

// FileBaseName sanitizes Title() per the fileBaseName() rule.
func (s *StreamInfo) FileBaseName() string {
	return sanitizeFileBaseName(s.Title())
}

// FullFileName is baseName + "." + suffix when suffix is non-empty, else
// just baseName.
func (s *StreamInfo) FullFileName() string {
	base := s.FileBaseName()
	suffix := s.Suffix()
	if suffix == "" {
		return base
	}
	return base + "." + suffix
}

// IsAvailable reports whether this item has no error status.
func (s *StreamInfo) IsAvailable() bool {
	return s.Error == NoError
}

// GuestimateFullSize sums filesize across fid's atoms, with missing atoms
// contributing 0. An empty fid yields -1.
func (s *StreamInfo) GuestimateFullSize(fid formatid.ID) int64 {
	if fid.IsEmpty() {
		return -1
	}
	var total int64
	for _, atomID := range fid.CompoundIDs() {
		if f, ok := s.findFormat(atomID); ok {
			total += f.Filesize.Int64()
		}
	}
	return total
}

// DefaultFormats returns formats with both video and audio, deduplicated
// and sorted ascending by (width, height, description) — the "one-click"
// set a consumer would surface first.
func (s *StreamInfo) DefaultFormats() []Format {
	seen := make(map[string]bool)
	var out []Format
	for _, f := range s.Formats {
		if !f.HasVideo() || !f.HasAudio() {
			continue
		}
		key := f.FormatID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Width != out[j].Width {
			return out[i].Width < out[j].Width
		}
		if out[i].Height != out[j].Height {
			return out[i].Height < out[j].Height
		}
		return out[i].description() < out[j].description()
	})
	return out
}

// AudioFormats returns audio-only formats in insertion order.
func (s *StreamInfo) AudioFormats() []Format {
	var out []Format
	for _, f := range s.Formats {
		if f.HasAudio() && !f.HasVideo() {
			out = append(out, f)
		}
	}
	return out
}

// VideoFormats returns video-only formats in insertion order.
func (s *StreamInfo) VideoFormats() []Format {
	var out []Format
	for _, f := range s.Formats {
		if f.HasVideo() && !f.HasAudio() {
			out = append(out, f)
		}
	}
	return out
}
