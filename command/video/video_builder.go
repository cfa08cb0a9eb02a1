package video

import (
	"fmt"
	"strconv"

	"vidplan/command"
	"vidplan/command/mixing"
	"vidplan/internal/timeutil"
	"vidplan/models"
)

// Pass selects which x264 pass a builder produces.
type Pass int

const (
	PassSingle Pass = iota // One pass, writes the final output
	PassFirst              // Calibration pass, writes only the pass log
	PassSecond             // Final pass reading the pass log
)

const (
	DefaultBinary     = "ffmpeg"
	DefaultNullDevice = "/dev/null"
	StdinInput        = "-"
)

// VideoBuilder builds the x264 encode of a transcode run from an EncodePlan.
type VideoBuilder struct {
	binary     string
	plan       *models.EncodePlan
	inputPath  string
	outputPath string

	// Input window in seconds; zero means unset
	offset float64
	length float64

	pass        Pass
	passLogFile string
	nullDevice  string

	// Inline audio encode, used when no external track is set
	audioCodec string

	// Externally encoded AAC track muxed by stream copy
	externalAudio string
	streams       mixing.StreamMap

	extraArgs []string
}

// NewVideoBuilder creates a builder for plan reading inputPath ("-" for stdin)
// and writing outputPath.
func NewVideoBuilder(plan *models.EncodePlan, inputPath, outputPath string) *VideoBuilder {
	return &VideoBuilder{
		binary:     DefaultBinary,
		plan:       plan,
		inputPath:  inputPath,
		outputPath: outputPath,
		nullDevice: DefaultNullDevice,
		audioCodec: "aac",
	}
}

// SetBinary sets the ffmpeg executable.
func (v *VideoBuilder) SetBinary(binary string) *VideoBuilder {
	v.binary = binary
	return v
}

// SetWindow limits the encode to length seconds starting at offset.
func (v *VideoBuilder) SetWindow(offset, length float64) *VideoBuilder {
	v.offset = offset
	v.length = length
	return v
}

// SetPass selects the pass to build.
func (v *VideoBuilder) SetPass(pass Pass) *VideoBuilder {
	v.pass = pass
	return v
}

// SetPassLogFile sets the prefix of the two-pass statistics files.
func (v *VideoBuilder) SetPassLogFile(prefix string) *VideoBuilder {
	v.passLogFile = prefix
	return v
}

// SetNullDevice sets the sink of the first pass.
func (v *VideoBuilder) SetNullDevice(path string) *VideoBuilder {
	v.nullDevice = path
	return v
}

// SetAudioCodec sets the codec of the inline audio encode.
func (v *VideoBuilder) SetAudioCodec(codec string) *VideoBuilder {
	v.audioCodec = codec
	return v
}

// SetExternalAudio muxes the AAC file at path instead of encoding the source
// audio, selecting streams with m.
func (v *VideoBuilder) SetExternalAudio(path string, m mixing.StreamMap) *VideoBuilder {
	v.externalAudio = path
	v.streams = m
	return v
}

// AddExtraArgs adds custom ffmpeg output arguments.
func (v *VideoBuilder) AddExtraArgs(args ...string) *VideoBuilder {
	v.extraArgs = append(v.extraArgs, args...)
	return v
}

// Validate checks the builder has a plan and the paths its pass needs.
func (v *VideoBuilder) Validate() error {
	if v.plan == nil {
		return fmt.Errorf("encode plan is required")
	}
	if v.inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if v.pass != PassFirst && v.outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if v.offset < 0 || v.length < 0 {
		return fmt.Errorf("offset and length cannot be negative")
	}
	return nil
}

// BuildArgs constructs the ffmpeg arguments for the selected pass.
//
// Layout: input window, inputs, size, pass, x264 settings, interlace
// handling, stream maps, audio, output.
func (v *VideoBuilder) BuildArgs() []string {
	if v.plan == nil {
		return []string{}
	}
	p := v.plan
	args := []string{"-y"}

	if v.offset > 0 {
		args = append(args, "-ss", timeutil.FormatSeconds(v.offset))
	}
	if v.length > 0 {
		args = append(args, "-t", timeutil.FormatSeconds(v.length))
	}
	args = append(args, "-i", v.inputPath)
	if v.pass != PassFirst && v.externalAudio != "" {
		args = append(args, "-i", v.externalAudio)
	}

	if p.Scaled {
		args = append(args, "-s", p.Size())
	}
	if v.pass != PassSingle {
		args = append(args, "-pass", strconv.Itoa(int(v.pass)))
		if v.passLogFile != "" {
			args = append(args, "-passlogfile", v.passLogFile)
		}
	}

	args = append(args, "-c:v", "libx264", "-threads", "0")
	if p.H264Level != "" {
		args = append(args, "-level", p.H264Level)
	}
	if p.Preset != "" {
		args = append(args, "-preset", p.Preset)
	}
	args = append(args,
		"-profile:v", p.H264Profile,
		"-b:v", strconv.Itoa(p.VideoBitrateKbps*1000),
	)

	switch p.Interlace {
	case models.InterlaceEncode:
		args = append(args, "-flags", "+ildct")
	case models.InterlaceDeinterlace:
		args = append(args, "-vf", "yadif=1")
	}
	if p.FrameRate != "" {
		args = append(args, "-r", p.FrameRate)
	}

	if v.pass == PassFirst {
		args = append(args, v.extraArgs...)
		return append(args, "-an", "-f", "rawvideo", v.nullDevice)
	}

	if v.externalAudio != "" {
		args = append(args, v.streams.Args()...)
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args,
			"-c:a", v.audioCodec,
			"-ac", strconv.Itoa(p.AudioChannels),
			"-ar", strconv.Itoa(p.AudioSampleRate),
			"-b:a", strconv.Itoa(p.AudioBitrateKbps*1000),
		)
	}

	args = append(args, v.extraArgs...)
	return append(args, v.outputPath)
}

// DryRun returns the command that would be executed without running it.
func (v *VideoBuilder) DryRun() (string, error) {
	return command.DryRun(v)
}

// Binary returns the ffmpeg executable.
func (v *VideoBuilder) Binary() string {
	return v.binary
}

// GetTaskType returns the task type identifier.
func (v *VideoBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeVideo
}

// GetInputPath returns the input file path.
func (v *VideoBuilder) GetInputPath() string {
	return v.inputPath
}

// GetOutputPath returns the output file path, empty for the first pass.
func (v *VideoBuilder) GetOutputPath() string {
	if v.pass == PassFirst {
		return ""
	}
	return v.outputPath
}

// Pass returns the selected pass.
func (v *VideoBuilder) Pass() Pass {
	return v.pass
}
