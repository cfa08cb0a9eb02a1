// Package cmd implements the vidplan command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vidplan/config"
	"vidplan/internal/logging"
	"vidplan/internal/metrics"
)

// app carries the loaded configuration to the subcommands.
type app struct {
	cfg *config.Config
}

// NewRootCmd builds the vidplan command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vidplan",
		Short: "Plan and run device-targeted H.264 transcodes",
		Long: `vidplan inspects media files with mediainfo, derives an encode plan for a
target device profile and drives ffmpeg, neroAacEnc and mplayer accordingly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			logging.Initialize(cfg.Logging)
			a.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newProbeCmd(a),
		newPlanCmd(a),
		newTranscodeCmd(a),
		newPlayCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return err
	}
	logging.GetLogger("main").Debug("Metrics written", "path", a.cfg.MetricsFile)
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	errorStyle := color.New(color.FgRed, color.Bold)
	if errors.Is(ctx.Err(), context.Canceled) {
		errorStyle.Fprintln(os.Stderr, "Interrupted, run cancelled")
		return 130
	}
	errorStyle.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
	return 1
}
