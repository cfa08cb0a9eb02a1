// Package player builds mplayer invocations that decode on the GPU through
// VDPAU, with a software fallback when hardware decoding fails.
package player

import (
	"fmt"
	"strings"

	"vidplan/command"
	"vidplan/models"
)

const (
	DefaultBinary = "mplayer"
	Mplayer2      = "mplayer2"

	// FatalMarker in mplayer stderr means the VDPAU decoder could not start.
	FatalMarker = "FATAL:"
)

// vdpauCodecs selects the hardware decoder per normalized codec. XVID has no
// VDPAU decoder and plays with the default one.
var vdpauCodecs = map[models.VideoCodec]string{
	models.CodecH264:   "ffh264vdpau",
	models.CodecWMV3:   "ffwmv3vdpau",
	models.CodecDIVX:   "ffodivxvdpau",
	models.CodecMPEG12: "ffmpeg12vdpau",
	models.CodecVC1:    "ffvc1vdpau",
}

// PlayerBuilder builds the playback command for one profiled file.
type PlayerBuilder struct {
	binary    string
	profile   *models.MediaProfile
	software  bool
	extraArgs []string
}

// NewPlayerBuilder creates a hardware playback command for profile.
func NewPlayerBuilder(profile *models.MediaProfile) *PlayerBuilder {
	return &PlayerBuilder{
		binary:  DefaultBinary,
		profile: profile,
	}
}

// SetBinary sets the player executable, "mplayer" or "mplayer2".
func (p *PlayerBuilder) SetBinary(binary string) *PlayerBuilder {
	p.binary = binary
	return p
}

// SetExtraArgs passes additional player options before the file name.
func (p *PlayerBuilder) SetExtraArgs(args ...string) *PlayerBuilder {
	p.extraArgs = args
	return p
}

// Software returns a copy of the builder that decodes in software.
func (p *PlayerBuilder) Software() *PlayerBuilder {
	c := *p
	c.software = true
	return &c
}

// IsSoftware reports whether the builder decodes in software.
func (p *PlayerBuilder) IsSoftware() bool {
	return p.software
}

// VDPAUOptions returns the suboptions appended to "-vo vdpau".
//
// Interlaced sources get the temporal deinterlacer. Progressive sources are
// sharpened and denoised instead; running both loads the GPU too much.
// High quality scaling is enabled unless the source is native 1920x1080.
func (p *PlayerBuilder) VDPAUOptions() string {
	var opts strings.Builder
	v := p.profile.Video

	switch v.Scan {
	case models.ScanInterlaced:
		opts.WriteString(":deint=4")
	case models.ScanProgressive:
		opts.WriteString(":sharpen=0.4:denoise=0.4")
	}
	if v.Width != nil && v.Height != nil && *v.Width != 1920 && *v.Height != 1080 {
		opts.WriteString(":hqscaling=1")
	}
	return opts.String()
}

// Decoder returns the VDPAU decoder for the source codec, or "".
func (p *PlayerBuilder) Decoder() string {
	return vdpauCodecs[p.profile.Video.Codec]
}

// Validate checks the builder has a profile to play.
func (p *PlayerBuilder) Validate() error {
	if p.profile == nil || p.profile.Path == "" {
		return fmt.Errorf("media profile with a path is required")
	}
	return nil
}

// BuildArgs constructs the player arguments.
func (p *PlayerBuilder) BuildArgs() []string {
	if p.profile == nil {
		return []string{}
	}

	var args []string
	if p.software {
		if p.profile.Video.Interlaced() {
			args = append(args, "-vf", "pp=yadif:1")
		}
	} else {
		args = append(args, "-vo", "vdpau"+p.VDPAUOptions())
		if decoder := p.Decoder(); decoder != "" {
			args = append(args, "-vc", decoder)
		}
	}
	args = append(args, p.extraArgs...)
	return append(args, p.profile.Path)
}

// DryRun returns the command that would be executed without running it.
func (p *PlayerBuilder) DryRun() (string, error) {
	return command.DryRun(p)
}

// Binary returns the player executable.
func (p *PlayerBuilder) Binary() string {
	return p.binary
}

// GetTaskType returns the task type (player).
func (p *PlayerBuilder) GetTaskType() command.TaskType {
	return command.TaskTypePlayer
}

// GetInputPath returns the played file.
func (p *PlayerBuilder) GetInputPath() string {
	if p.profile == nil {
		return ""
	}
	return p.profile.Path
}

// GetOutputPath returns an empty string; playback writes no file.
func (p *PlayerBuilder) GetOutputPath() string {
	return ""
}

// HardwareFailed reports whether player stderr shows a fatal VDPAU error.
func HardwareFailed(stderr string) bool {
	return strings.Contains(stderr, FatalMarker)
}
