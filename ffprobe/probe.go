// Package ffprobe reads container durations with the ffprobe tool, used to
// turn encoder positions into a percentage.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"vidplan/internal/logging"
)

// DefaultBinary is the ffprobe executable looked up in PATH.
const DefaultBinary = "ffprobe"

// Format represents the container format information.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// ProbeResult holds the metadata extracted from a media file.
type ProbeResult struct {
	Format Format `json:"format"`
}

// GetDuration returns the duration of the media file in seconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (float64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return duration, nil
}

// Prober runs ffprobe.
type Prober struct {
	Binary string
}

// NewProber creates a prober for binary, DefaultBinary when empty.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{Binary: binary}
}

// Probe analyzes a media file and extracts its format metadata.
//
//	result, err := ffprobe.NewProber("").Probe(ctx, "/path/to/video.mkv")
//	duration, _ := result.GetDuration()
func (p *Prober) Probe(ctx context.Context, sourcePath string) (*ProbeResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	// -v quiet: suppress logging, -show_format: container information only
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		sourcePath,
	}

	output, err := exec.CommandContext(ctx, p.Binary, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed on '%s': %w", sourcePath, err)
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}

// Duration returns the summed duration of paths in seconds, the length of
// their concatenation.
func (p *Prober) Duration(ctx context.Context, paths ...string) (float64, error) {
	logger := logging.GetLogger("ffprobe")

	var total float64
	for _, path := range paths {
		result, err := p.Probe(ctx, path)
		if err != nil {
			return 0, err
		}
		d, err := result.GetDuration()
		if err != nil {
			return 0, fmt.Errorf("'%s': %w", path, err)
		}
		logger.Debug("Probed duration", "path", path, "seconds", d)
		total += d
	}
	return total, nil
}
