package models

import (
	"fmt"
	"strings"
)

// SameAsSource is the H.264 profile/level value that requests the source
// file's own profile and level.
const SameAsSource = "same"

// TargetProfile describes the output constraints of a playback device.
type TargetProfile struct {
	Name            string `json:"name" yaml:"name"`
	MaxWidth        int    `json:"max_width" yaml:"max_width"`
	MaxHeight       int    `json:"max_height" yaml:"max_height"`
	MaxVideoBitrate int    `json:"max_video_bitrate" yaml:"max_video_bitrate"`
	Interlaced      bool   `json:"interlaced" yaml:"interlaced"`
	H264Profile     string `json:"h264_profile" yaml:"h264_profile"`
	H264Level       string `json:"h264_level" yaml:"h264_level"`
	MaxAudioBitrate int    `json:"max_audio_bitrate" yaml:"max_audio_bitrate"`
	AudioSampleRate int    `json:"audio_sample_rate" yaml:"audio_sample_rate"`
	AudioChannels   int    `json:"audio_channels" yaml:"audio_channels"`

	// Source is the file the profile was loaded from, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// MatchSource reports whether the target requests the source's own H.264
// profile and level. Either key set to "same" enables it for both.
func (t *TargetProfile) MatchSource() bool {
	return strings.EqualFold(t.H264Profile, SameAsSource) || strings.EqualFold(t.H264Level, SameAsSource)
}

// Validate checks that all mandatory fields are present.
// Name and Interlaced are optional.
func (t *TargetProfile) Validate() error {
	var missing []string

	if t.MaxWidth <= 0 {
		missing = append(missing, "video width")
	}
	if t.MaxHeight <= 0 {
		missing = append(missing, "video height")
	}
	if t.MaxVideoBitrate <= 0 {
		missing = append(missing, "video bitrate")
	}
	if strings.TrimSpace(t.H264Profile) == "" {
		missing = append(missing, "H.264 profile")
	}
	if strings.TrimSpace(t.H264Level) == "" {
		missing = append(missing, "H.264 level")
	}
	if t.MaxAudioBitrate <= 0 {
		missing = append(missing, "audio bitrate")
	}
	if t.AudioSampleRate <= 0 {
		missing = append(missing, "audio sample rate")
	}
	if t.AudioChannels <= 0 {
		missing = append(missing, "audio channel count")
	}

	if len(missing) > 0 {
		return fmt.Errorf("incomplete target %s: no %s specified", t.label(), strings.Join(missing, ", no "))
	}
	return nil
}

func (t *TargetProfile) label() string {
	switch {
	case t.Source != "":
		return t.Source
	case t.Name != "":
		return t.Name
	default:
		return "profile"
	}
}
