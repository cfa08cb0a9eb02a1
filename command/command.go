// Package command provides the Command interface shared by the external tool
// invocations of a transcode run (ffmpeg passes, audio extraction, neroAacEnc
// and the player).
//
// Builders only assemble argument lists. Execution belongs to the
// orchestrator, which wires stdin, stdout and stderr between processes.
package command

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// TaskType represents the kind of tool invocation.
type TaskType string

const (
	TaskTypeAudio  TaskType = "audio"  // PCM extraction or AAC encoding
	TaskTypeVideo  TaskType = "video"  // x264 encode pass
	TaskTypePlayer TaskType = "player" // Playback
)

// Command represents an external tool invocation that can be built, previewed
// or started.
//
// Example usage:
//
//	cmd := video.NewVideoBuilder(plan, "input.mkv", "out.mp4").
//		SetPass(video.PassFirst)
//
//	line, err := cmd.DryRun()   // "ffmpeg -y -i input.mkv ..."
//	proc, err := command.Exec(ctx, cmd)
type Command interface {
	// Binary returns the executable name or path.
	Binary() string

	// BuildArgs constructs the argument list, excluding the binary.
	BuildArgs() []string

	// Validate reports whether the builder has everything it needs.
	Validate() error

	// DryRun returns the command line as a single shell-like string without
	// executing it.
	DryRun() (string, error)

	// GetTaskType returns the kind of invocation, used for logs and metrics.
	GetTaskType() TaskType

	// GetInputPath returns the primary input, "-" when reading stdin.
	GetInputPath() string

	// GetOutputPath returns the output file, empty when there is none.
	GetOutputPath() string
}

// Line joins binary and args into a command line. Arguments containing
// whitespace or quotes are quoted so the line can be pasted into a shell.
func Line(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(binary))
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

// DryRun validates cmd and renders its command line.
func DryRun(cmd Command) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}
	return Line(cmd.Binary(), cmd.BuildArgs()), nil
}

// Exec validates cmd and prepares it for execution. The returned process is
// not started.
func Exec(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s command: %w", cmd.GetTaskType(), err)
	}
	return exec.CommandContext(ctx, cmd.Binary(), cmd.BuildArgs()...), nil
}

func quote(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\$") {
		return strconv.Quote(arg)
	}
	return arg
}
