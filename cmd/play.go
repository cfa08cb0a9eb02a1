package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidplan/command/player"
	"vidplan/mediainfo"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		useMplayer2 bool
		playerOpts  string
	)

	c := &cobra.Command{
		Use:   "play FILE",
		Short: "Play a file with VDPAU decoding, falling back to software",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := mediainfo.NewProber(a.cfg.Tools.MediaInfo).Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			binary := a.cfg.Tools.Mplayer
			if useMplayer2 {
				binary = a.cfg.Tools.Mplayer2
			}
			b := player.NewPlayerBuilder(profile).
				SetBinary(binary).
				SetExtraArgs(strings.Fields(playerOpts)...)

			if a.cfg.DryRun {
				hw, err := b.DryRun()
				if err != nil {
					return err
				}
				sw, err := b.Software().DryRun()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hw)
				fmt.Fprintln(cmd.OutOrStdout(), sw)
				return nil
			}

			fellBack, err := player.Play(cmd.Context(), b, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if fellBack {
				warningStyle.Fprintln(cmd.ErrOrStderr(), "VDPAU playback failed, used software decoding")
			}
			return err
		},
	}

	c.Flags().BoolVarP(&useMplayer2, "use-mplayer2", "2", false, "Use mplayer2 instead of mplayer")
	c.Flags().StringVarP(&playerOpts, "mplayer-opts", "m", "", "Pass additional mplayer options")
	return c
}
