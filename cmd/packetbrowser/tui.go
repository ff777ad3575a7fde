package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/NeedsSoySauce/Packet-Browser/internal/tui"
)

func newTUICmd() *cobra.Command {
	flags := &commonFlags{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse a trace file interactively",
		Long: `Open a trace file in an interactive terminal browser.

The controls panel chooses browse or flow mode, IP or port matching, the host
side and the selected values; the table below shows the matching packets
with the sum and mean size. In the table, e edits the size under the cursor,
c copies the current cell and v pastes a size from the clipboard. Every
accepted edit is saved to the file immediately.

Log messages only go to --log-file (or log.file in the config) while the
browser is running.`,
		Example: `  packetbrowser tui --input trace.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.input == "" {
				return missingFlagError(cmd, "--input")
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, flags)
			if err != nil {
				return err
			}
			defer logger.Close()
			logger.SetOutput(io.Discard, io.Discard)
			return tui.Run(flags.input, cfg, logger)
		},
	}

	registerCommonFlags(cmd, flags)
	return cmd
}
