package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidplan/config"
	"vidplan/ffprobe"
	"vidplan/internal/logging"
	"vidplan/models"
	"vidplan/orchestrator"
)

type transcodeOptions struct {
	output     string
	targetName string
	length     int
	offset     int
	twoPass    bool
	preset     string
	nero       bool
}

// Validate checks the options against the number of inputs.
func (o *transcodeOptions) Validate(inputs int) error {
	if o.output == "" {
		return fmt.Errorf("no output file specified")
	}
	if o.targetName == "" {
		return fmt.Errorf("no target specified")
	}
	if o.length < 0 || o.offset < 0 {
		return fmt.Errorf("length and offset cannot be negative")
	}
	if inputs > 1 && (o.length > 0 || o.offset > 0) {
		return fmt.Errorf("multiple file mode is not compatible with --length or --offset")
	}
	return nil
}

func newTranscodeCmd(a *app) *cobra.Command {
	opts := &transcodeOptions{}

	c := &cobra.Command{
		Use:   "transcode -o OUTPUT -t TARGET FILE...",
		Short: "Transcode one file, or several concatenated files, for a target device",
		Long: `Probes the input, plans the encode for the target and runs ffmpeg. Several
input files are checked for compatibility and streamed as one input.

With --use-neroaac the audio is encoded separately by neroAacEnc and muxed
into the final pass.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTranscode(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	f := c.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output file name")
	f.StringVarP(&opts.targetName, "target", "t", "", "Target device name or profile file")
	f.IntVarP(&opts.length, "length", "l", 0, "Number of seconds to encode (defaults to whole file)")
	f.IntVarP(&opts.offset, "offset", "s", 0, "Offset in seconds from the beginning of the input file to skip")
	f.BoolVarP(&opts.twoPass, "double-pass", "2", false, "Use double-pass encoding for better compression efficiency")
	f.StringVarP(&opts.preset, "preset", "p", "", "x264 preset to use for encoding")
	f.BoolVarP(&opts.nero, "use-neroaac", "n", false, "Use neroAacEnc instead of ffmpeg for audio encoding")
	return c
}

func (a *app) runTranscode(ctx context.Context, stdout, stderr io.Writer, opts *transcodeOptions, inputs []string) error {
	cfg := a.cfg
	if err := opts.Validate(len(inputs)); err != nil {
		return err
	}
	output, err := filepath.Abs(opts.output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	src, err := loadSource(ctx, cfg, inputs)
	if err != nil {
		return err
	}
	defer src.Close()

	_, plan, err := buildPlan(cfg, src.profile, opts.targetName, models.Overrides{
		TwoPass: opts.twoPass,
		Preset:  opts.preset,
	})
	if err != nil {
		return err
	}
	printWarnings(stderr, plan.Warnings)

	id := uuid.New().String()
	logger := logging.GetLogger("transcode").With("job", id)

	j := &job{
		id:      id,
		workDir: filepath.Join(cfg.WorkDir, "vidplan-"+id),
		inputs:  inputs,
		output:  output,
		fed:     src.reader != nil,
		profile: src.profile,
		plan:    plan,
		offset:  float64(opts.offset),
		length:  float64(opts.length),
		nero:    opts.nero,
	}

	var feeder orchestrator.Feeder
	if src.reader != nil {
		feeder = src.reader
	}

	if cfg.DryRun {
		o, err := j.orchestrate(cfg, feeder, nil)
		if err != nil {
			return err
		}
		lines, err := o.DryRun()
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(stdout, line)
		}
		return nil
	}

	if j.length == 0 {
		j.length = expectedLength(ctx, cfg, inputs, j.offset)
	}

	if err := os.MkdirAll(j.workDir, 0755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if cfg.KeepWorkDir {
			logger.Info("Keeping work directory", "path", j.workDir)
			return
		}
		if err := os.RemoveAll(j.workDir); err != nil {
			logger.Warn("Failed to remove work directory", "path", j.workDir, "error", err)
		}
	}()

	o, err := j.orchestrate(cfg, feeder, progressPrinter(stderr))
	if err != nil {
		return err
	}

	logger.Info("Starting transcode",
		"inputs", len(inputs),
		"output", output,
		"target", opts.targetName,
		"two_pass", plan.TwoPass,
		"nero", opts.nero)

	start := time.Now()
	results, runErr := o.Execute(ctx)
	printSummary(stdout, output, results, time.Since(start), runErr)
	return runErr
}

// expectedLength asks ffprobe for the input duration, used for progress
// percentages. Zero means unknown.
func expectedLength(ctx context.Context, cfg *config.Config, inputs []string, offset float64) float64 {
	total, err := ffprobe.NewProber(cfg.Tools.FFprobe).Duration(ctx, inputs...)
	if err != nil {
		logging.GetLogger("transcode").Debug("Input duration unknown", "error", err)
		return 0
	}
	return max(total-offset, 0)
}

// progressPrinter rewrites one terminal line per step.
func progressPrinter(w io.Writer) models.ProgressCallback {
	return func(p *models.PassProgress) {
		fmt.Fprintf(w, "\r%s", p.Summary())
		if p.State == models.StepCompleted || p.State == models.StepFailed {
			fmt.Fprintln(w)
		}
	}
}

func printSummary(w io.Writer, output string, results []*models.StepResult, took time.Duration, err error) {
	headerStyle.Fprintln(w, "Transcode summary")
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Success {
			successStyle.Fprintf(w, "  ok      ")
		} else {
			failureStyle.Fprintf(w, "  failed  ")
		}
		fmt.Fprintf(w, "%-6s %s\n", r.TaskID, r.Duration.Round(time.Millisecond))
	}
	field(w, "Total", took.Round(time.Second))
	if err != nil {
		failureStyle.Fprintln(w, "Transcode failed")
		return
	}
	field(w, "Output", output)
}
