package audio

import (
	"fmt"
	"strconv"

	"vidplan/command"
)

// NeroBuilder encodes WAV from stdin to an AAC-LC file at a constant bit rate.
type NeroBuilder struct {
	binary      string
	outputPath  string
	bitrateKbps int
}

// NewNeroBuilder creates an encode to outputPath at bitrateKbps.
func NewNeroBuilder(outputPath string, bitrateKbps int) *NeroBuilder {
	return &NeroBuilder{
		binary:      DefaultNeroBinary,
		outputPath:  outputPath,
		bitrateKbps: bitrateKbps,
	}
}

// SetBinary sets the neroAacEnc executable.
func (n *NeroBuilder) SetBinary(binary string) *NeroBuilder {
	n.binary = binary
	return n
}

// Validate checks the output path and bit rate.
func (n *NeroBuilder) Validate() error {
	if n.outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if n.bitrateKbps <= 0 {
		return fmt.Errorf("bit rate must be positive, got %d", n.bitrateKbps)
	}
	return nil
}

// BuildArgs constructs the neroAacEnc arguments. The WAV header written to a
// pipe carries no valid length, hence -ignorelength.
func (n *NeroBuilder) BuildArgs() []string {
	return []string{
		"-cbr", strconv.Itoa(n.bitrateKbps * 1000),
		"-lc",
		"-ignorelength",
		"-if", "-",
		"-of", n.outputPath,
	}
}

// DryRun returns the command that would be executed without running it.
func (n *NeroBuilder) DryRun() (string, error) {
	return command.DryRun(n)
}

// Binary returns the neroAacEnc executable.
func (n *NeroBuilder) Binary() string {
	return n.binary
}

// GetTaskType returns the task type (audio).
func (n *NeroBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeAudio
}

// GetInputPath returns "-"; the encoder reads stdin.
func (n *NeroBuilder) GetInputPath() string {
	return "-"
}

// GetOutputPath returns the AAC file path.
func (n *NeroBuilder) GetOutputPath() string {
	return n.outputPath
}
