package cmd

import (
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X vidplan/cmd.Version=v1.0.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			headerStyle.Fprintf(w, "vidplan %s\n", Version)
			field(w, "Commit", Commit)
			field(w, "Build date", BuildDate)
			return nil
		},
	}
}
