package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vidplan/concatenator"
	"vidplan/config"
	"vidplan/mediainfo"
	"vidplan/models"
	"vidplan/planner"
	"vidplan/target"
)

// planReport is the structured output of the plan command.
type planReport struct {
	Inputs []string              `json:"inputs" yaml:"inputs"`
	Source *models.MediaProfile  `json:"source" yaml:"source"`
	Target *models.TargetProfile `json:"target" yaml:"target"`
	Plan   *models.EncodePlan    `json:"plan" yaml:"plan"`
}

// source is the profiled input of a plan or transcode. reader is set only
// for a group of files and must be closed by the caller.
type source struct {
	profile *models.MediaProfile
	reader  *concatenator.MultiFileReader
}

func (s *source) Close() error {
	if s.reader == nil {
		return nil
	}
	return s.reader.Close()
}

// loadSource probes one file, or checks a group of files for compatibility
// and opens it as one stream.
func loadSource(ctx context.Context, cfg *config.Config, paths []string) (*source, error) {
	prober := mediainfo.NewProber(cfg.Tools.MediaInfo)
	if len(paths) == 1 {
		profile, err := prober.Probe(ctx, paths[0])
		if err != nil {
			return nil, err
		}
		return &source{profile: profile}, nil
	}

	reader, err := concatenator.NewMultiFileReader(ctx, prober, paths)
	if err != nil {
		return nil, err
	}
	return &source{profile: reader.Profile(), reader: reader}, nil
}

// buildPlan loads the target and plans the encode of src.
func buildPlan(cfg *config.Config, src *models.MediaProfile, targetName string, overrides models.Overrides) (*models.TargetProfile, *models.EncodePlan, error) {
	if overrides.Preset == "" {
		overrides.Preset = cfg.Preset
	}
	if overrides.Preset != "" && !config.IsValidPreset(overrides.Preset) {
		return nil, nil, fmt.Errorf("invalid preset '%s'", overrides.Preset)
	}

	tgt, err := target.Load(targetName, cfg.TargetsDir)
	if err != nil {
		return nil, nil, err
	}
	plan, err := planner.Plan(src, tgt, overrides)
	if err != nil {
		return nil, nil, err
	}
	return tgt, plan, nil
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		targetName string
		overrides  models.Overrides
		format     string
	)

	c := &cobra.Command{
		Use:   "plan -t TARGET FILE...",
		Short: "Show the encode plan for a target without encoding",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			src, err := loadSource(cmd.Context(), a.cfg, args)
			if err != nil {
				return err
			}
			defer src.Close()

			tgt, plan, err := buildPlan(a.cfg, src.profile, targetName, overrides)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != FormatText {
				return writeStructured(out, format, planReport{
					Inputs: args,
					Source: src.profile,
					Target: tgt,
					Plan:   plan,
				})
			}
			printPlan(out, tgt, plan)
			printWarnings(cmd.ErrOrStderr(), plan.Warnings)
			return nil
		},
	}

	c.Flags().StringVarP(&targetName, "target", "t", "", "Target device name or profile file")
	c.Flags().BoolVarP(&overrides.TwoPass, "double-pass", "2", false, "Plan a two-pass encode")
	c.Flags().StringVarP(&overrides.Preset, "preset", "p", "", "x264 preset")
	c.Flags().StringVar(&format, "format", FormatText, "Output format: text, yaml or json")
	_ = c.MarkFlagRequired("target")
	return c
}

func printPlan(w io.Writer, tgt *models.TargetProfile, plan *models.EncodePlan) {
	name := tgt.Name
	if name == "" {
		name = tgt.Source
	}
	headerStyle.Fprintf(w, "Encode plan for %s\n", name)

	size := fmt.Sprintf("%dx%d", plan.Width, plan.Height)
	if !plan.Scaled {
		size += " (unscaled)"
	}
	field(w, "Size", size)
	field(w, "Video", fmt.Sprintf("%d Kbps", plan.VideoBitrateKbps))
	level := plan.H264Level
	if level == "" {
		level = "encoder default"
	}
	field(w, "H.264", fmt.Sprintf("profile %s, level %s", plan.H264Profile, level))
	field(w, "Audio", fmt.Sprintf("%d Kbps, %d channels, %d Hz",
		plan.AudioBitrateKbps, plan.AudioChannels, plan.AudioSampleRate))

	interlace := string(plan.Interlace)
	if plan.FrameRate != "" {
		interlace += ", rate " + plan.FrameRate
	}
	field(w, "Interlace", interlace)

	passes := "single pass"
	if plan.TwoPass {
		passes = "two pass"
	}
	if plan.Preset != "" {
		passes += ", preset " + plan.Preset
	}
	field(w, "Encode", passes)
}
