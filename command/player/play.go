package player

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"vidplan/command"
	"vidplan/internal/logging"
)

// Play runs the hardware decoding command and, when its stderr reports a
// fatal VDPAU error, runs the software command. Player output is copied to
// stdout and stderr. It reports whether the software fallback was used.
func Play(ctx context.Context, b *PlayerBuilder, stdout, stderr io.Writer) (bool, error) {
	logger := logging.GetLogger("player")

	hw := b
	if hw.IsSoftware() {
		hw = &PlayerBuilder{binary: b.binary, profile: b.profile, extraArgs: b.extraArgs}
	}
	logger.Info("Starting playback",
		"path", hw.GetInputPath(),
		"vdpau_options", hw.VDPAUOptions(),
		"decoder", hw.Decoder())

	var captured bytes.Buffer
	err := run(ctx, hw, stdout, io.MultiWriter(stderr, &captured))
	if !HardwareFailed(captured.String()) {
		return false, err
	}

	logger.Warn("Hardware decoding failed, falling back to software", "path", hw.GetInputPath())
	if err := run(ctx, hw.Software(), stdout, stderr); err != nil {
		return true, err
	}
	return true, nil
}

func run(ctx context.Context, c command.Command, stdout, stderr io.Writer) error {
	proc, err := command.Exec(ctx, c)
	if err != nil {
		return err
	}
	proc.Stdout = stdout
	proc.Stderr = stderr
	if err := proc.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", c.Binary(), err)
	}
	return nil
}
