package streaminfo

import (
	"ytstream/internal/constants"
	"ytstream/internal/formatid"
)

// Format is a single atomic track description. Value typed; FormatID wraps
// a token slice, so Format values are not comparable with ==.
type Format struct {
	FormatID   formatid.ID   `json:"format_id"`
	Ext        string        `json:"ext"`
	FormatNote string        `json:"format_note"`
	Filesize   FlexibleFloat `json:"filesize"`
	ACodec     string        `json:"acodec"`
	ABR        FlexibleFloat `json:"abr"`
	ASR        FlexibleFloat `json:"asr"`
	VCodec     string        `json:"vcodec"`
	Width      FlexibleFloat `json:"width"`
	Height     FlexibleFloat `json:"height"`
	FPS        FlexibleFloat `json:"fps"`
	TBR        FlexibleFloat `json:"tbr"`
}

// HasVideo reports whether this track carries a video codec.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != constants.NoneCodec
}

// HasAudio reports whether this track carries an audio codec.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != constants.NoneCodec
}

// description is the free-form label defaultFormats() sorts by as a
// tiebreaker after width/height.
func (f Format) description() string {
	if f.FormatNote != "" {
		return f.FormatNote
	}
	return f.Ext
}
