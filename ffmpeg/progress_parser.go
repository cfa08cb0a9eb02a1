// Package ffmpeg reads the -stats status line ffmpeg writes to stderr.
package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"vidplan/internal/timeutil"
	"vidplan/models"
)

// maxErrorLines bounds the stderr lines kept for error reports.
const maxErrorLines = 20

// ProgressParser parses ffmpeg stderr output for encoding metrics.
//
// Lines that are not status lines are kept, the last few of them, so a
// failed step can report what ffmpeg printed.
type ProgressParser struct {
	frameRegex   *regexp.Regexp
	fpsRegex     *regexp.Regexp
	sizeRegex    *regexp.Regexp
	timeRegex    *regexp.Regexp
	bitrateRegex *regexp.Regexp
	speedRegex   *regexp.Regexp

	tail []string
}

// NewProgressParser creates a new parser for ffmpeg progress output.
func NewProgressParser() *ProgressParser {
	// Keys may be padded ("frame=   24") and appear anywhere in the status line.
	field := func(key, value string) *regexp.Regexp {
		return regexp.MustCompile(`(?:^|\s)` + key + `=\s*(` + value + `)`)
	}
	return &ProgressParser{
		frameRegex:   field("frame", `\d+`),
		fpsRegex:     field("fps", `[0-9.]+`),
		sizeRegex:    field("L?size", `[0-9]+`),
		timeRegex:    field("time", `[0-9:.]+`),
		bitrateRegex: field("bitrate", `[0-9.]+`),
		speedRegex:   field("speed", `[0-9.]+`),
	}
}

// ParseLine parses a single line of ffmpeg stderr output and updates progress.
// It reports whether the line carried any status field.
func (pp *ProgressParser) ParseLine(line string, progress *models.PassProgress) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	updated := false

	if m := pp.frameRegex.FindStringSubmatch(line); m != nil {
		if frame, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			progress.Frame = frame
			updated = true
		}
	}

	if m := pp.fpsRegex.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.FPS = fps
			updated = true
		}
	}

	if m := pp.sizeRegex.FindStringSubmatch(line); m != nil {
		progress.Size = m[1] + "kB"
		updated = true
	}

	if m := pp.timeRegex.FindStringSubmatch(line); m != nil {
		if seconds, err := timeutil.ParseClock(m[1]); err == nil {
			progress.Advance(seconds)
			updated = true
		}
	}

	if m := pp.bitrateRegex.FindStringSubmatch(line); m != nil {
		progress.Bitrate = m[1] + "kbits/s"
		updated = true
	}

	if m := pp.speedRegex.FindStringSubmatch(line); m != nil {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.Speed = speed
			updated = true
		}
	}

	return updated
}

// StreamProgress reads ffmpeg stderr until EOF, updating progress and calling
// callback after every status line. callback may be nil.
func (pp *ProgressParser) StreamProgress(reader io.Reader, progress *models.PassProgress, callback models.ProgressCallback) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(ScanStatusLines)

	for scanner.Scan() {
		line := scanner.Text()
		if pp.ParseLine(line, progress) {
			progress.State = models.StepRunning
			if callback != nil {
				callback(progress)
			}
			continue
		}
		pp.remember(line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ffmpeg output: %w", err)
	}
	return nil
}

// Tail returns the last non-status lines seen, oldest first.
func (pp *ProgressParser) Tail() string {
	return strings.Join(pp.tail, "\n")
}

func (pp *ProgressParser) remember(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	pp.tail = append(pp.tail, line)
	if len(pp.tail) > maxErrorLines {
		pp.tail = pp.tail[len(pp.tail)-maxErrorLines:]
	}
}

// ScanStatusLines is a bufio.SplitFunc that splits on "\n", "\r\n" and bare
// "\r". ffmpeg rewrites its status line in place with carriage returns.
func ScanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// A "\n" may follow in the next read.
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
