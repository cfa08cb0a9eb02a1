// Package models provides core data structures for the vidplan system.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ScanType is the tri-state interlace flag of a video stream.
type ScanType int

const (
	ScanUnknown     ScanType = iota // No scan type reported
	ScanProgressive                 // Progressive frames
	ScanInterlaced                  // Interlaced or MBAFF
)

// String returns the human-readable scan type.
func (s ScanType) String() string {
	switch s {
	case ScanProgressive:
		return "progressive"
	case ScanInterlaced:
		return "interlaced"
	default:
		return "unknown"
	}
}

// MarshalText renders the scan type by name in JSON and YAML output.
func (s ScanType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseScanType maps a prober scan-type value onto a ScanType.
//
// "Interlaced" and "MBAFF" are interlaced, "Progressive" is progressive.
// Anything else leaves the flag unknown.
func ParseScanType(value string) ScanType {
	switch value {
	case "Interlaced", "MBAFF":
		return ScanInterlaced
	case "Progressive":
		return ScanProgressive
	default:
		return ScanUnknown
	}
}

// VideoInfo holds the video characteristics of a media file.
//
// Optional values are pointers; nil means the prober did not report them.
type VideoInfo struct {
	StreamID      *int       `json:"stream_id,omitempty" yaml:"stream_id,omitempty"`
	Format        string     `json:"format,omitempty" yaml:"format,omitempty"`
	CodecID       string     `json:"codec_id,omitempty" yaml:"codec_id,omitempty"`
	Codec         VideoCodec `json:"codec" yaml:"codec"`
	FormatProfile *string    `json:"format_profile,omitempty" yaml:"format_profile,omitempty"`
	Scan          ScanType   `json:"scan" yaml:"scan"`
	Width         *int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height        *int       `json:"height,omitempty" yaml:"height,omitempty"`
	BitrateKbps   *int       `json:"bitrate_kbps,omitempty" yaml:"bitrate_kbps,omitempty"`
	FPS           *float64   `json:"fps,omitempty" yaml:"fps,omitempty"`
}

// Interlaced reports whether the stream is known to be interlaced.
func (v VideoInfo) Interlaced() bool {
	return v.Scan == ScanInterlaced
}

// AudioInfo holds the audio characteristics of a media file.
type AudioInfo struct {
	StreamID     *int    `json:"stream_id,omitempty" yaml:"stream_id,omitempty"`
	Format       string  `json:"format,omitempty" yaml:"format,omitempty"`
	CodecID      *string `json:"codec_id,omitempty" yaml:"codec_id,omitempty"`
	Channels     *int    `json:"channels,omitempty" yaml:"channels,omitempty"`
	BitrateKbps  *int    `json:"bitrate_kbps,omitempty" yaml:"bitrate_kbps,omitempty"`
	SampleRateHz *int    `json:"sample_rate_hz,omitempty" yaml:"sample_rate_hz,omitempty"`
}

// MediaProfile is the structured description of one media file.
//
// A MediaProfile is produced once by ProfileBuilder.Build and must be treated
// as read-only afterwards. Build guarantees that every field required for
// concatenation checks and planning is present.
type MediaProfile struct {
	Path  string    `json:"path" yaml:"path"`
	Video VideoInfo `json:"video" yaml:"video"`
	Audio AudioInfo `json:"audio" yaml:"audio"`
}

// Validate enforces the mandatory fields of a profile.
//
// The check order is fixed so the reported field is deterministic:
// frame rate, width, height, scan type, video codec, audio codec,
// audio channels, audio sample rate.
func (p *MediaProfile) Validate() error {
	missing := func(field string) error {
		return &ParseError{Path: p.Path, Field: field, Reason: "no " + field + " found"}
	}

	switch {
	case p.Video.FPS == nil:
		return missing(FieldFrameRate)
	case p.Video.Width == nil:
		return missing(FieldWidth)
	case p.Video.Height == nil:
		return missing(FieldHeight)
	case p.Video.Scan == ScanUnknown:
		return missing(FieldScanType)
	case p.Video.Codec == CodecUnknown:
		return missing(FieldVideoCodec)
	case p.Audio.CodecID == nil:
		return missing(FieldAudioCodec)
	case p.Audio.Channels == nil:
		return missing(FieldAudioChannels)
	case p.Audio.SampleRateHz == nil:
		return missing(FieldSampleRate)
	}
	return nil
}

// String renders the profile in a multi-line human-readable form.
func (p *MediaProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Input file: %s\n", p.Path)
	b.WriteString("Video:\n")
	fmt.Fprintf(&b, "\tStream ID: %s\n", formatInt(p.Video.StreamID))
	fmt.Fprintf(&b, "\tFormat profile: %s\n", formatString(p.Video.FormatProfile))
	fmt.Fprintf(&b, "\tCodec: %s\n", p.Video.Codec)
	fmt.Fprintf(&b, "\tScan type: %s\n", p.Video.Scan)
	fmt.Fprintf(&b, "\tWidth: %s\n", formatInt(p.Video.Width))
	fmt.Fprintf(&b, "\tHeight: %s\n", formatInt(p.Video.Height))
	fmt.Fprintf(&b, "\tBit rate: %s Kbps\n", formatInt(p.Video.BitrateKbps))
	fmt.Fprintf(&b, "\tFPS: %s\n", formatFloat(p.Video.FPS))
	b.WriteString("Audio:\n")
	fmt.Fprintf(&b, "\tStream ID: %s\n", formatInt(p.Audio.StreamID))
	fmt.Fprintf(&b, "\tFormat: %s\n", p.Audio.Format)
	fmt.Fprintf(&b, "\tCodec ID: %s\n", formatString(p.Audio.CodecID))
	fmt.Fprintf(&b, "\tChannel count: %s\n", formatInt(p.Audio.Channels))
	fmt.Fprintf(&b, "\tBit rate: %s Kbps\n", formatInt(p.Audio.BitrateKbps))
	fmt.Fprintf(&b, "\tSample rate: %s Hz\n", formatInt(p.Audio.SampleRateHz))
	return b.String()
}

func formatInt(v *int) string {
	if v == nil {
		return "<none>"
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "<none>"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil {
		return "<none>"
	}
	return *v
}
