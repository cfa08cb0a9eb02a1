// Package audio builds the two halves of the separate AAC encode: ffmpeg
// decoding the source audio to PCM on stdout, and neroAacEnc reading it.
package audio

import (
	"fmt"
	"strconv"

	"vidplan/command"
	"vidplan/internal/timeutil"
)

const (
	DefaultFFmpegBinary = "ffmpeg"
	DefaultNeroBinary   = "neroAacEnc"
	StdoutPipe          = "pipe:1"
)

// ExtractBuilder decodes the source audio to 16-bit PCM WAV on stdout,
// resampled to the target channel count and sample rate.
type ExtractBuilder struct {
	binary     string
	inputPath  string
	channels   int
	sampleRate int
	offset     float64
	length     float64
}

// NewExtractBuilder creates an extraction of inputPath ("-" for stdin).
func NewExtractBuilder(inputPath string, channels, sampleRate int) *ExtractBuilder {
	return &ExtractBuilder{
		binary:     DefaultFFmpegBinary,
		inputPath:  inputPath,
		channels:   channels,
		sampleRate: sampleRate,
	}
}

// SetBinary sets the ffmpeg executable.
func (a *ExtractBuilder) SetBinary(binary string) *ExtractBuilder {
	a.binary = binary
	return a
}

// SetWindow limits extraction to length seconds starting at offset.
func (a *ExtractBuilder) SetWindow(offset, length float64) *ExtractBuilder {
	a.offset = offset
	a.length = length
	return a
}

// Validate checks the input and output format parameters.
func (a *ExtractBuilder) Validate() error {
	if a.inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if a.channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", a.channels)
	}
	if a.sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", a.sampleRate)
	}
	return nil
}

// BuildArgs constructs the ffmpeg arguments. ffmpeg logging is silenced so
// stderr carries nothing while stdout carries the WAV stream.
func (a *ExtractBuilder) BuildArgs() []string {
	args := []string{"-v", "0", "-y"}
	if a.offset > 0 {
		args = append(args, "-ss", timeutil.FormatSeconds(a.offset))
	}
	if a.length > 0 {
		args = append(args, "-t", timeutil.FormatSeconds(a.length))
	}
	return append(args,
		"-i", a.inputPath,
		"-vn",
		"-c:a", "pcm_s16le",
		"-ac", strconv.Itoa(a.channels),
		"-ar", strconv.Itoa(a.sampleRate),
		"-f", "wav",
		StdoutPipe,
	)
}

// DryRun returns the command that would be executed without running it.
func (a *ExtractBuilder) DryRun() (string, error) {
	return command.DryRun(a)
}

// Binary returns the ffmpeg executable.
func (a *ExtractBuilder) Binary() string {
	return a.binary
}

// GetTaskType returns the task type (audio).
func (a *ExtractBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeAudio
}

// GetInputPath returns the input file path.
func (a *ExtractBuilder) GetInputPath() string {
	return a.inputPath
}

// GetOutputPath returns an empty string; the output is stdout.
func (a *ExtractBuilder) GetOutputPath() string {
	return ""
}
