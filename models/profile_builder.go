package models

// ProfileBuilder accumulates fields of a MediaProfile while a probe report is
// scanned. It starts with nothing known; Build derives the normalized codec
// and applies the validation gate, so callers never see a partial profile.
type ProfileBuilder struct {
	profile MediaProfile
}

// NewProfileBuilder creates an empty builder for the given file path.
func NewProfileBuilder(path string) *ProfileBuilder {
	return &ProfileBuilder{profile: MediaProfile{Path: path}}
}

// Video stream fields

// SetVideoStreamID records the video stream ID.
func (b *ProfileBuilder) SetVideoStreamID(id int) *ProfileBuilder {
	b.profile.Video.StreamID = &id
	return b
}

// SetVideoFormat records the video format name, such as "AVC".
func (b *ProfileBuilder) SetVideoFormat(format string) *ProfileBuilder {
	b.profile.Video.Format = format
	return b
}

// SetVideoCodecID records the raw video codec identifier.
func (b *ProfileBuilder) SetVideoCodecID(codecID string) *ProfileBuilder {
	b.profile.Video.CodecID = codecID
	return b
}

// SetVideoFormatProfile records the format profile, such as "High@L4.1".
func (b *ProfileBuilder) SetVideoFormatProfile(profile string) *ProfileBuilder {
	b.profile.Video.FormatProfile = &profile
	return b
}

// SetVideoScan records the scan type. ScanUnknown never overwrites a known value.
func (b *ProfileBuilder) SetVideoScan(scan ScanType) *ProfileBuilder {
	if scan != ScanUnknown {
		b.profile.Video.Scan = scan
	}
	return b
}

// SetVideoWidth records the width in pixels.
func (b *ProfileBuilder) SetVideoWidth(width int) *ProfileBuilder {
	b.profile.Video.Width = &width
	return b
}

// SetVideoHeight records the height in pixels.
func (b *ProfileBuilder) SetVideoHeight(height int) *ProfileBuilder {
	b.profile.Video.Height = &height
	return b
}

// SetVideoBitrate records the video bit rate in Kbps.
func (b *ProfileBuilder) SetVideoBitrate(kbps int) *ProfileBuilder {
	b.profile.Video.BitrateKbps = &kbps
	return b
}

// SetVideoFPS records the frame rate.
func (b *ProfileBuilder) SetVideoFPS(fps float64) *ProfileBuilder {
	b.profile.Video.FPS = &fps
	return b
}

// Audio stream fields

// SetAudioStreamID records the audio stream ID.
func (b *ProfileBuilder) SetAudioStreamID(id int) *ProfileBuilder {
	b.profile.Audio.StreamID = &id
	return b
}

// SetAudioFormat records the audio format name.
func (b *ProfileBuilder) SetAudioFormat(format string) *ProfileBuilder {
	b.profile.Audio.Format = format
	return b
}

// SetAudioCodecID records the raw audio codec identifier.
func (b *ProfileBuilder) SetAudioCodecID(codecID string) *ProfileBuilder {
	b.profile.Audio.CodecID = &codecID
	return b
}

// SetAudioChannels records the channel count.
func (b *ProfileBuilder) SetAudioChannels(channels int) *ProfileBuilder {
	b.profile.Audio.Channels = &channels
	return b
}

// SetAudioBitrate records the audio bit rate in Kbps.
func (b *ProfileBuilder) SetAudioBitrate(kbps int) *ProfileBuilder {
	b.profile.Audio.BitrateKbps = &kbps
	return b
}

// SetAudioSampleRate records the sample rate in Hz.
func (b *ProfileBuilder) SetAudioSampleRate(hz int) *ProfileBuilder {
	b.profile.Audio.SampleRateHz = &hz
	return b
}

// Build normalizes the video codec and validates the profile.
//
// The returned profile is a copy; further calls on the builder do not affect it.
func (b *ProfileBuilder) Build() (*MediaProfile, error) {
	p := b.profile
	p.Video.Codec = NormalizeVideoCodec(p.Video.CodecID, p.Video.Format)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
