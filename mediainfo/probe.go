package mediainfo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"vidplan/internal/logging"
	"vidplan/internal/metrics"
	"vidplan/models"
)

// DefaultBinary is the prober looked up on PATH when none is configured.
const DefaultBinary = "mediainfo"

// Prober runs mediainfo on a file and parses its text report.
type Prober struct {
	Binary string
}

// NewProber creates a prober for the given binary, or DefaultBinary if empty.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{Binary: binary}
}

// Args returns the prober arguments for path.
func (p *Prober) Args(path string) []string {
	return []string{path}
}

// Report runs the prober and returns its raw text output.
func (p *Prober) Report(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input file '%s' not found: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input file '%s' is a directory", path)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Binary, p.Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w (output: %s)", p.Binary, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Probe runs the prober on path and builds the file's profile.
func (p *Prober) Probe(ctx context.Context, path string) (*models.MediaProfile, error) {
	logger := logging.GetLogger("mediainfo")

	report, err := p.Report(ctx, path)
	if err != nil {
		metrics.ProfileParsed(err)
		return nil, err
	}

	profile, err := Parse(path, bytes.NewReader(report))
	metrics.ProfileParsed(err)
	if err != nil {
		logger.Debug("Report rejected", "path", path, "error", err)
		return nil, err
	}

	logger.Debug("Profile parsed", "path", path,
		"codec", profile.Video.Codec.String(),
		"width", *profile.Video.Width,
		"height", *profile.Video.Height,
		"scan", profile.Video.Scan.String())
	return profile, nil
}
