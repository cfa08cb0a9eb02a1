package models

import "slices"

// VideoCodec is the normalized video codec of a media file.
type VideoCodec string

const (
	CodecUnknown VideoCodec = ""
	CodecH264    VideoCodec = "H.264"
	CodecWMV3    VideoCodec = "WMV3"
	CodecDIVX    VideoCodec = "DIVX"
	CodecMPEG12  VideoCodec = "MPEG 1/2"
	CodecVC1     VideoCodec = "VC-1"
	CodecXVID    VideoCodec = "XVID"
)

// String returns the codec name, or "unknown" for CodecUnknown.
func (c VideoCodec) String() string {
	if c == CodecUnknown {
		return "unknown"
	}
	return string(c)
}

// codecRule matches a raw codec id or format string to a normalized codec.
type codecRule struct {
	codecIDs []string
	formats  []string
	codec    VideoCodec
}

// codecRules is evaluated top to bottom; the first matching rule wins.
var codecRules = []codecRule{
	{codecIDs: []string{"avc1", "V_MPEG4/ISO/AVC"}, formats: []string{"AVC"}, codec: CodecH264},
	{codecIDs: []string{"WMV3"}, codec: CodecWMV3},
	{codecIDs: []string{"DX40", "DIVX"}, codec: CodecDIVX},
	{formats: []string{"MPEG Video"}, codec: CodecMPEG12},
	{formats: []string{"VC-1"}, codec: CodecVC1},
	{codecIDs: []string{"XVID"}, codec: CodecXVID},
}

// NormalizeVideoCodec derives the normalized codec from the raw codec id and
// format strings reported by the prober.
func NormalizeVideoCodec(codecID, format string) VideoCodec {
	for _, rule := range codecRules {
		if slices.Contains(rule.codecIDs, codecID) || slices.Contains(rule.formats, format) {
			return rule.codec
		}
	}
	return CodecUnknown
}
