package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidplan/internal/metrics"
	"vidplan/mediainfo"
	"vidplan/models"
)

func newProbeCmd(a *app) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Print the media profile of each file",
		Long: `Runs mediainfo on each file and prints the parsed profile. With more than
one file the group is also checked for concatenation compatibility.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			prober := mediainfo.NewProber(a.cfg.Tools.MediaInfo)
			profiles := make([]*models.MediaProfile, 0, len(args))
			for _, path := range args {
				profile, err := prober.Probe(cmd.Context(), path)
				if err != nil {
					return err
				}
				profiles = append(profiles, profile)
			}

			out := cmd.OutOrStdout()
			if format != FormatText {
				if err := writeStructured(out, format, profiles); err != nil {
					return err
				}
			} else {
				for i, profile := range profiles {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprint(out, profile.String())
				}
			}

			if len(profiles) < 2 {
				return nil
			}
			for i, profile := range profiles[1:] {
				if ok, diff := models.Compare(profiles[0], profile); !ok {
					metrics.IncompatibleGroup()
					failureStyle.Fprintf(cmd.ErrOrStderr(), "%s is not compatible with %s\n", args[i+1], args[0])
					return &models.CompatibilityError{First: args[0], Other: args[i+1], Diff: diff}
				}
			}
			successStyle.Fprintf(cmd.ErrOrStderr(), "All %d files are compatible\n", len(profiles))
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", FormatText, "Output format: text, yaml or json")
	return c
}
