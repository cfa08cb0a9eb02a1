package models

import "fmt"

// InterlaceMode selects how interlaced sources are handled by the encoder.
type InterlaceMode string

const (
	InterlaceNone        InterlaceMode = "none"        // Progressive source, nothing to do
	InterlaceDeinterlace InterlaceMode = "deinterlace" // Apply a deinterlace filter
	InterlaceEncode      InterlaceMode = "interlaced"  // Keep fields, encode interlaced
)

// Overrides are the user options that feed into planning.
type Overrides struct {
	TwoPass bool   // Run a calibration pass before the final pass
	Preset  string // x264 preset, empty for the encoder default
}

// EncodePlan holds the encoding parameters derived for one job.
type EncodePlan struct {
	// Scaled is false when the source already fits the target; Width and
	// Height then repeat the source dimensions.
	Scaled bool `json:"scaled" yaml:"scaled"`
	Width  int  `json:"width" yaml:"width"`
	Height int  `json:"height" yaml:"height"`

	VideoBitrateKbps int    `json:"video_bitrate_kbps" yaml:"video_bitrate_kbps"`
	H264Profile      string `json:"h264_profile" yaml:"h264_profile"`
	H264Level        string `json:"h264_level" yaml:"h264_level"`

	AudioBitrateKbps int `json:"audio_bitrate_kbps" yaml:"audio_bitrate_kbps"`
	AudioChannels    int `json:"audio_channels" yaml:"audio_channels"`
	AudioSampleRate  int `json:"audio_sample_rate" yaml:"audio_sample_rate"`

	Interlace InterlaceMode `json:"interlace" yaml:"interlace"`
	// FrameRate is an explicit output rate such as "30000/1001"; empty keeps the source rate.
	FrameRate string `json:"frame_rate,omitempty" yaml:"frame_rate,omitempty"`

	TwoPass bool   `json:"two_pass" yaml:"two_pass"`
	Preset  string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// Warnings are non-fatal configuration problems found while planning.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Size returns the output size as WIDTHxHEIGHT, or "" when unscaled.
func (p *EncodePlan) Size() string {
	if !p.Scaled {
		return ""
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}
