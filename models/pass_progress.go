package models

import (
	"fmt"
	"time"
)

// PassProgress is the encoder status of one transcode step, as reported on
// the encoder's -stats line.
type PassProgress struct {
	Step string // Step label, e.g. "pass 1" or "final"

	Frame   int64   // Frames written so far
	FPS     float64 // Encoder throughput in frames per second
	Seconds float64 // Output position in seconds
	Size    string  // Output size so far, e.g. "1024kB"
	Bitrate string  // Current output bitrate, e.g. "2034.1kbits/s"
	Speed   float64 // Realtime multiplier

	// Length is the expected output length in seconds; zero when unknown.
	Length  float64
	Percent float64

	State     StepState
	StartTime time.Time
	UpdatedAt time.Time
}

// StepState is the lifecycle state of one transcode step.
type StepState string

const (
	StepPending   StepState = "pending"
	StepRunning   StepState = "running"
	StepCompleted StepState = "completed"
	StepFailed    StepState = "failed"
	StepSkipped   StepState = "skipped"
)

// ProgressCallback receives progress updates while a step runs.
type ProgressCallback func(progress *PassProgress)

// NewPassProgress starts tracking a step. length may be zero.
func NewPassProgress(step string, length float64) *PassProgress {
	now := time.Now()
	return &PassProgress{
		Step:      step,
		Length:    length,
		State:     StepPending,
		StartTime: now,
		UpdatedAt: now,
	}
}

// Advance records a new output position and recomputes the percentage.
func (p *PassProgress) Advance(seconds float64) {
	p.Seconds = seconds
	if p.Length > 0 {
		p.Percent = seconds / p.Length * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	p.UpdatedAt = time.Now()
}

// Remaining estimates the time left from the elapsed time and the percentage.
// It is zero when nothing can be estimated yet.
func (p *PassProgress) Remaining() time.Duration {
	if p.Percent <= 0 || p.Percent >= 100 {
		return 0
	}
	elapsed := p.UpdatedAt.Sub(p.StartTime)
	total := time.Duration(float64(elapsed) / (p.Percent / 100))
	if total < elapsed {
		return 0
	}
	return total - elapsed
}

// Summary renders a one-line status for the terminal.
func (p *PassProgress) Summary() string {
	if p.Length <= 0 {
		return fmt.Sprintf("[%s] frame %d | %.1f fps | %s | speed %.2fx",
			p.Step, p.Frame, p.FPS, p.Bitrate, p.Speed)
	}
	return fmt.Sprintf("[%s] %.1f%% | frame %d | %.1f fps | %s | speed %.2fx | ETA %s",
		p.Step, p.Percent, p.Frame, p.FPS, p.Bitrate, p.Speed, formatRemaining(p.Remaining()))
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "--"
	}

	total := int(d.Seconds())
	h, m, s := total/3600, total/60%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
